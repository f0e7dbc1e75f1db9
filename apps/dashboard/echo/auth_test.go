package echoapi

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/tests"
)

func Test_authApi_login(t *testing.T) {
	app, api := setup(t)

	creds := func(email, pwd, role string) []byte {
		return marchallObj(t, auth.Credentials{Email: email, Password: pwd, Role: role})
	}

	tests := []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":    "this field is required",
				"password": "this field is required",
				"role":     "this field is required",
			}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/login",
			body:     creds(testutil.AdminEmail, "nope", auth.RoleAdmin),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid credentials"}),
		},
		{
			name: "wrong area", method: http.MethodPost, path: "/login",
			body:     creds(testutil.AdminEmail, testutil.Password, auth.RoleAccountant),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "Role mismatch"}),
		},
		{
			name: "admin", method: http.MethodPost, path: "/login",
			body:     creds(" Admin@School.pk ", testutil.Password, auth.RoleAdmin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, sessionResponse{User: adminUser, Role: auth.RoleAdmin, Redirect: auth.AdminHome}),
		},
		{
			name: "accountant", method: http.MethodPost, path: "/login",
			body:     creds(testutil.AccountantEmail, testutil.Password, auth.RoleAccountant),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, sessionResponse{User: acctUser, Role: auth.RoleAccountant, Redirect: auth.AccountantHome}),
		},
	}
	runHTTPTests(t, app, tests)

	assert.Equal(t, 4, api.Count(http.MethodPost, "/global/login"), "invalid drafts never reach the server")
}

func Test_authApi_loginPersistsSession(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodPost, "/login",
		marchallObj(t, auth.Credentials{Email: testutil.AdminEmail, Password: testutil.Password, Role: auth.RoleAdmin}))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tokCookie := findCookie(rec, auth.TokenKey)
	require.NotNil(t, tokCookie)
	tok, err := base64.RawURLEncoding.DecodeString(tokCookie.Value)
	require.NoError(t, err)
	assert.Equal(t, testutil.Token, string(tok))
	assert.True(t, tokCookie.HttpOnly)
	require.NotNil(t, findCookie(rec, auth.UserKey))

	// the cookies alone restore the session
	req, rec = newAuthRequest(http.MethodGet, "/session", []*http.Cookie{tokCookie, findCookie(rec, auth.UserKey)})
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, sessionResponse{User: adminUser, Role: auth.RoleAdmin, Redirect: auth.AdminHome}),
	}, rec)
}

func Test_authApi_loginFailureClearsSession(t *testing.T) {
	app, _ := setup(t)

	req, rec := newAuthRequest(http.MethodPost, "/login", sessionCookies(t, acctUser),
		marchallObj(t, auth.Credentials{Email: testutil.AdminEmail, Password: "nope", Role: auth.RoleAdmin}))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid credentials"})}, rec)

	for _, name := range []string{auth.TokenKey, auth.UserKey} {
		c := findCookie(rec, name)
		if assert.NotNil(t, c, name) {
			assert.True(t, c.MaxAge < 0, "%s cookie must be expired", name)
		}
	}
}

func Test_authApi_session(t *testing.T) {
	app, _ := setup(t)

	tests := []httpTest{
		{name: "anonymous", path: "/session", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated)},
		{
			name: "user cookie missing", path: "/session", session: sessionCookies(t, adminUser)[:1],
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errNotAuthenticated),
		},
		{
			name: "restored", path: "/session", session: sessionCookies(t, acctUser),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, sessionResponse{User: acctUser, Role: auth.RoleAccountant, Redirect: auth.AccountantHome}),
		},
	}
	runHTTPTests(t, app, tests)
}

func Test_authApi_logout(t *testing.T) {
	app, _ := setup(t)

	req, rec := newAuthRequest(http.MethodPost, "/logout", sessionCookies(t, adminUser))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"redirect": "/login"}`)}, rec)

	for _, name := range []string{auth.TokenKey, auth.UserKey} {
		c := findCookie(rec, name)
		if assert.NotNil(t, c, name) {
			assert.True(t, c.MaxAge < 0, "%s cookie must be expired", name)
		}
	}
}

func Test_home(t *testing.T) {
	app, _ := setup(t)

	tests := []struct {
		name    string
		session []*http.Cookie
		want    string
	}{
		{name: "anonymous", want: auth.LoginPage},
		{name: "admin", session: sessionCookies(t, adminUser), want: auth.AdminHome},
		{name: "accountant", session: sessionCookies(t, acctUser), want: auth.AccountantHome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/", tt.session)
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}
