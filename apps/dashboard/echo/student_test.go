package echoapi

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/form"
	"github.com/trezcool/feedesk/core/student"
)

type studentMutation struct {
	Data  student.Created                                `json:"data"`
	Flash form.Flash                                     `json:"flash"`
	List  *listResponse[student.Student, student.Stats] `json:"list"`
}

func newStudent(id, campusID, name string, total, paid, balance int64) student.Student {
	return student.Student{
		ID:         id,
		Name:       name,
		FatherName: "Father of " + name,
		Class:      "5",
		CampusID:   campusID,
		AllTotal:   decimal.NewFromInt(total),
		FeePaid:    decimal.NewFromInt(paid),
		CurBalance: decimal.NewFromInt(balance),
	}
}

func Test_studentApi_queryCampus(t *testing.T) {
	app, api := setup(t)
	api.Students["c1"] = []student.Student{
		newStudent("s1", "c1", "Ali", 3000, 3000, 0),
		newStudent("s2", "c1", "Zara", 3000, 1000, 2000),
		newStudent("s3", "c1", "Omar", 3000, 1000, 500), // server balance disagrees
	}

	req, rec := newAuthRequest(http.MethodGet, "/admin/campuses/c1/students?search=zara", sessionCookies(t, adminUser))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp listResponse[student.Student, student.Stats]
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Page.Items, 1)
	assert.Equal(t, "s2", resp.Page.Items[0].ID)
	assert.Equal(t, 3, resp.Stats.Count)
	assert.Equal(t, 1, resp.Stats.Cleared)
	assert.Equal(t, 2, resp.Stats.WithBalance)
	assert.Equal(t, 1, resp.Stats.Inconsistent)
	assert.True(t, decimal.NewFromInt(2500).Equal(resp.Stats.TotalBalance), "balances are shown as received")
}

func Test_studentApi_create(t *testing.T) {
	app, api := setup(t)

	body := marchallObj(t, student.NewStudent{Name: "Ali", FatherName: "Ahmed", Class: "5", CampusID: "c1", TuitionFee: decimal.NewFromInt(2500)})
	req, rec := newAuthRequest(http.MethodPost, "/admin/students", sessionCookies(t, adminUser), body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp studentMutation
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Ali", resp.Data.Student.Name)
	assert.NotEmpty(t, resp.Data.Slip["_id"])
	assert.Equal(t, "Student created and fee slip generated", resp.Flash.Message)
	require.NotNil(t, resp.List)
	assert.Len(t, resp.List.Page.Items, 1)
	assert.Equal(t, "c1", api.LastBody("/global/create-and-generate-slip")["campus_id"])

	req, rec = newAuthRequest(http.MethodPost, "/admin/students", sessionCookies(t, adminUser), []byte(`{"name": "Ali"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{
			"fatherName": "this field is required",
			"class":      "this field is required",
			"campus_id":  "this field is required",
		}),
	}, rec)
	assert.Equal(t, 1, api.Count(http.MethodPost, "/global/create-and-generate-slip"))
}

func Test_studentApi_destroy(t *testing.T) {
	app, api := setup(t)
	api.Students["c1"] = []student.Student{
		newStudent("s1", "c1", "Ali", 0, 0, 0),
		newStudent("s2", "c1", "Zara", 0, 0, 0),
		newStudent("s3", "c1", "Omar", 0, 0, 0),
	}
	admin := sessionCookies(t, adminUser)

	tests := []httpTest{
		{
			name: "not confirmed", method: http.MethodDelete, path: "/admin/students",
			body:     marchallObj(t, bulkDeleteRequest{IDs: []string{"s1"}}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "deletion must be confirmed"}),
		},
		{
			name: "nothing selected", method: http.MethodDelete, path: "/admin/students?confirm=true",
			body:     marchallObj(t, bulkDeleteRequest{IDs: []string{"", ""}}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"ids": "no students selected"}),
		},
	}
	runHTTPTests(t, app, tests)
	assert.Zero(t, api.Count(http.MethodPost, "/global/students-delete"))

	t.Run("bulk", func(t *testing.T) {
		body := marchallObj(t, bulkDeleteRequest{IDs: []string{"s1", "s2", "s1"}, CampusID: "c1"})
		req, rec := newAuthRequest(http.MethodDelete, "/admin/students?confirm=true", admin, body)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp studentMutation
		decodeBody(t, rec, &resp)
		assert.Equal(t, "Students deleted successfully", resp.Flash.Message)
		require.NotNil(t, resp.List)
		require.Len(t, resp.List.Page.Items, 1)
		assert.Equal(t, "s3", resp.List.Page.Items[0].ID)
		assert.Equal(t, []interface{}{"s1", "s2"}, api.LastBody("/global/students-delete")["studentIds"])
	})

	t.Run("single goes through the bulk endpoint", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/admin/students/s3?confirm=true", admin)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp studentMutation
		decodeBody(t, rec, &resp)
		assert.Nil(t, resp.List, "no campus given, nothing to reload")
		assert.Equal(t, []interface{}{"s3"}, api.LastBody("/global/students-delete")["studentIds"])
		assert.Empty(t, api.Students["c1"])
	})
}

func Test_studentApi_records(t *testing.T) {
	app, api := setup(t)
	api.Students["c1"] = []student.Student{newStudent("s1", "c1", "Ali", 0, 0, 0)}
	admin := sessionCookies(t, adminUser)

	for _, path := range []string{"/admin/students/s1/record", "/admin/students/s1/fees"} {
		req, rec := newAuthRequest(http.MethodGet, path, admin)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var record student.Record
		decodeBody(t, rec, &record)
		assert.Contains(t, record, "student", path)
	}
	assert.Equal(t, "studentId=s1", api.Requests()[1].Query)

	req, rec := newAuthRequest(http.MethodGet, "/admin/students/nope/record", admin)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Student not found"})}, rec)
}

func Test_studentApi_pinnedToCampus(t *testing.T) {
	app, api := setup(t)
	api.Students["campus-1"] = []student.Student{newStudent("s1", "campus-1", "Ali", 0, 0, 0)}
	api.Students["c2"] = []student.Student{newStudent("s2", "c2", "Zara", 0, 0, 0)}
	acct := sessionCookies(t, acctUser)

	req, rec := newAuthRequest(http.MethodGet, "/accountant/students", acct)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list listResponse[student.Student, student.Stats]
	decodeBody(t, rec, &list)
	require.Len(t, list.Page.Items, 1)
	assert.Equal(t, "s1", list.Page.Items[0].ID)

	// the campus of the draft is ignored
	body := marchallObj(t, student.NewStudent{Name: "Omar", FatherName: "Umar", Class: "2", CampusID: "c2"})
	req, rec = newAuthRequest(http.MethodPost, "/accountant/students", acct, body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "campus-1", api.LastBody("/global/create-and-generate-slip")["campus_id"])
	assert.Len(t, api.Students["c2"], 1)

	tests := []httpTest{
		{
			name: "no campus assigned", path: "/accountant/students",
			session:  sessionCookies(t, auth.User{ID: "u-x", Name: "X", Email: "x@school.pk", Role: auth.RoleAccountant}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "no campus assigned to this account"}),
		},
		{
			name: "admins stay out", path: "/accountant/students", session: sessionCookies(t, adminUser),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermissionDenied),
		},
	}
	runHTTPTests(t, app, tests)
}
