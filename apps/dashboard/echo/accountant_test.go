package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/feedesk/core/accountant"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/form"
)

type accountantMutation struct {
	Data  accountant.Accountant `json:"data"`
	Flash form.Flash            `json:"flash"`
	List  accountantsPage       `json:"list"`
}

func Test_accountantApi_query(t *testing.T) {
	app, api := setup(t)
	api.Campuses = append(api.Campuses,
		campus.Campus{ID: "c1", Name: "North", Status: campus.StatusActive},
		campus.Campus{ID: "c2", Name: "South", Status: campus.StatusActive},
	)
	api.Accountants = append(api.Accountants,
		accountant.Accountant{ID: "a1", Name: "Sara", Email: "sara@school.pk", Status: accountant.StatusActive, Campus: accountant.CampusRef{ID: "c1"}},
		accountant.Accountant{ID: "a2", Name: "Bilal", Email: "bilal@school.pk", Status: accountant.StatusInactive, Campus: accountant.CampusRef{ID: "c2"}},
		accountant.Accountant{ID: "a3", Name: "Hina", Email: "hina@school.pk", Status: accountant.StatusActive, Campus: accountant.CampusRef{ID: "c1"}},
	)

	req, rec := newAuthRequest(http.MethodGet, "/admin/accountants?search=south", sessionCookies(t, adminUser))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp accountantsPage
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Page.Items, 1, "campus names are searchable")
	assert.Equal(t, "a2", resp.Page.Items[0].ID)
	assert.Equal(t, "South", resp.Page.Items[0].Campus.Name)
	assert.Equal(t, accountant.Stats{Total: 3, Active: 2, Inactive: 1, PerCampus: map[string]int{"c1": 2, "c2": 1}}, resp.Stats)
	assert.Len(t, resp.Campuses, 2)

	assert.Equal(t, 1, api.Count(http.MethodGet, "/campus/list"))
	assert.Equal(t, 1, api.Count(http.MethodGet, "/accountant/all"))
}

func Test_accountantApi_create(t *testing.T) {
	app, api := setup(t)
	api.Campuses = append(api.Campuses, campus.Campus{ID: "c1", Name: "North"})
	admin := sessionCookies(t, adminUser)

	tests := []struct {
		name     string
		body     accountant.NewAccountant
		wantCode int
		wantData []byte
	}{
		{
			name:     "invalid email",
			body:     accountant.NewAccountant{Name: "Sara", Email: "sara", PhoneNo: "1", Password: "x", CampusID: "c1"},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name:     "unknown campus",
			body:     accountant.NewAccountant{Name: "Sara", Email: "sara@school.pk", PhoneNo: "1", Password: "x", CampusID: "c9"},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"campus_id": "campus does not exist"}),
		},
		{
			name:     "valid",
			body:     accountant.NewAccountant{Name: "Sara", Email: " Sara@School.pk ", PhoneNo: "1", Password: "x", CampusID: "c1"},
			wantCode: http.StatusCreated,
		},
		{
			name:     "duplicate",
			body:     accountant.NewAccountant{Name: "Sara", Email: "sara@school.pk", PhoneNo: "1", Password: "x", CampusID: "c1"},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Accountant already exists"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/admin/accountants", admin, marchallObj(t, tt.body))
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: tt.wantData}, rec)
		})
	}

	assert.Equal(t, 2, api.Count(http.MethodPost, "/accountant/create"), "drafts failing local checks are never sent")
	body := api.LastBody("/accountant/create")
	assert.Equal(t, "sara@school.pk", body["email"])
	assert.Equal(t, "c1", body["campus_id"])
}

func Test_accountantApi_createReloads(t *testing.T) {
	app, api := setup(t)
	api.Campuses = append(api.Campuses, campus.Campus{ID: "c1", Name: "North"})

	body := marchallObj(t, accountant.NewAccountant{Name: "Sara", Email: "sara@school.pk", PhoneNo: "1", Password: "x", CampusID: "c1"})
	req, rec := newAuthRequest(http.MethodPost, "/admin/accountants", sessionCookies(t, adminUser), body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp accountantMutation
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Accountant created successfully", resp.Flash.Message)
	require.Len(t, resp.List.Page.Items, 1)
	assert.Equal(t, accountant.CampusRef{ID: "c1", Name: "North"}, resp.List.Page.Items[0].Campus)
	assert.Equal(t, 1, resp.List.Stats.Total)
}

func Test_accountantApi_update(t *testing.T) {
	app, api := setup(t)
	api.Campuses = append(api.Campuses, campus.Campus{ID: "c1", Name: "North"}, campus.Campus{ID: "c2", Name: "South"})
	api.Accountants = append(api.Accountants,
		accountant.Accountant{ID: "a1", Name: "Sara", Email: "sara@school.pk", Status: accountant.StatusActive, Campus: accountant.CampusRef{ID: "c1"}},
	)
	admin := sessionCookies(t, adminUser)

	req, rec := newAuthRequest(http.MethodPut, "/admin/accountants/a1", admin, []byte(`{"campus_id": "c9"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{"campus_id": "campus does not exist"}),
	}, rec)

	req, rec = newAuthRequest(http.MethodPut, "/admin/accountants/a1", admin, []byte(`{"campus_id": "c2", "status": "Inactive"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp accountantMutation
	decodeBody(t, rec, &resp)
	assert.Equal(t, "c2", resp.Data.Campus.ID)
	assert.False(t, resp.Data.IsActive())
	require.Len(t, resp.List.Page.Items, 1)
	assert.Equal(t, "South", resp.List.Page.Items[0].Campus.Name)
	assert.Equal(t, 1, api.Count(http.MethodPut, "/accountant/update/a1"))
}

func Test_accountantApi_destroy(t *testing.T) {
	app, api := setup(t)
	api.Accountants = append(api.Accountants, accountant.Accountant{ID: "a1", Name: "Sara"})
	admin := sessionCookies(t, adminUser)

	req, rec := newAuthRequest(http.MethodDelete, "/admin/accountants/a1", admin)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, api.Count(http.MethodDelete, "/accountant/delete/a1"))

	req, rec = newAuthRequest(http.MethodDelete, "/admin/accountants/a1?confirm=1", admin)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp accountantMutation
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Accountant deleted successfully", resp.Flash.Message)
	assert.True(t, resp.List.Page.Empty)

	req, rec = newAuthRequest(http.MethodDelete, "/admin/accountants/a1?confirm=true", admin)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Accountant not found"})}, rec)
}
