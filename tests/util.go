package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/feedesk/core/accountant"
	"github.com/trezcool/feedesk/core/auth"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/dashboard"
	"github.com/trezcool/feedesk/core/defaulter"
	"github.com/trezcool/feedesk/core/student"
)

const (
	AdminEmail      = "admin@school.pk"
	AccountantEmail = "sara@school.pk"
	Password        = "secret"
	Token           = "test-token"
)

// Request is a call received by the fake API.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]interface{}
}

type fakeUser struct {
	user     auth.User
	password string
}

// FakeAPI is an in-memory stand-in for the remote fee API.
type FakeAPI struct {
	*httptest.Server

	mu          sync.Mutex
	seq         int
	users       map[string]fakeUser
	requests    []Request
	Campuses    []campus.Campus
	Accountants []accountant.Accountant
	Students    map[string][]student.Student
	Defaulters  []defaulter.Defaulter
	Counts      dashboard.Counts
	Activity    []dashboard.Activity
	Monthly     []dashboard.MonthlyCollection
	// raw payloads returned as is by the report endpoints
	DailyReport    string
	CashFlowReport string
	// FailWith makes every authenticated endpoint answer with this status.
	FailWith int
	// failOn answers single routes, keyed by "METHOD /path", with a status.
	failOn map[string]int
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	api := &FakeAPI{
		users: map[string]fakeUser{
			AdminEmail: {
				user:     auth.User{ID: "u-admin", Name: "Admin", Email: AdminEmail, Role: auth.RoleAdmin},
				password: Password,
			},
			AccountantEmail: {
				user:     auth.User{ID: "u-sara", Name: "Sara", Email: AccountantEmail, Role: auth.RoleAccountant, CampusID: "campus-1"},
				password: Password,
			},
		},
		Campuses: make([]campus.Campus, 0),
		Students: make(map[string][]student.Student),
		failOn:   make(map[string]int),
	}
	api.Server = httptest.NewServer(api.routes())
	t.Cleanup(api.Close)
	return api
}

// Fail makes method and path answer with status from now on.
func (api *FakeAPI) Fail(method, path string, status int) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.failOn[method+" "+path] = status
}

// Requests returns every call received so far.
func (api *FakeAPI) Requests() []Request {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]Request(nil), api.requests...)
}

// Count returns how many calls hit method and path.
func (api *FakeAPI) Count(method, path string) int {
	var n int
	for _, r := range api.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastBody returns the JSON body of the latest call to path.
func (api *FakeAPI) LastBody(path string) map[string]interface{} {
	reqs := api.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Path == path {
			return reqs[i].Body
		}
	}
	return nil
}

func (api *FakeAPI) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(api.record)

	e.POST("/global/login", api.login)

	g := e.Group("", api.authenticated)
	g.GET("/global/profile", api.profile)

	g.POST("/campus/create", api.createCampus)
	g.GET("/campus/list", api.listCampuses)
	g.PUT("/campus/update/:id", api.updateCampus)
	g.DELETE("/campus/delete/:id", api.deleteCampus)
	g.GET("/global/dashboardSummary/:id", api.campusSummary)
	g.GET("/campus/:id/students", api.campusStudents)

	g.POST("/accountant/create", api.createAccountant)
	g.GET("/accountant/all", api.listAccountants)
	g.PUT("/accountant/update/:id", api.updateAccountant)
	g.DELETE("/accountant/delete/:id", api.deleteAccountant)

	g.GET("/global/dashboard-counts", func(c echo.Context) error { return c.JSON(http.StatusOK, api.Counts) })
	g.GET("/dashboard/activity", func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"data": api.Activity}) })
	g.GET("/global/paid", func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"data": api.Monthly}) })

	g.POST("/global/daily-cash-report", func(c echo.Context) error { return rawJSON(c, api.DailyReport) })
	g.POST("/global/adminCash-flow-report", func(c echo.Context) error { return rawJSON(c, api.CashFlowReport) })

	g.GET("/global/defaulters/", api.listDefaulters)
	g.GET("/global/defaulter/:id", api.campusDefaulters)
	g.GET("/global/paid-defaulter/:id", api.studentRecord)
	g.GET("/global/student-fees", api.studentRecord)
	g.POST("/global/create-and-generate-slip", api.createStudent)
	g.POST("/global/students-delete", api.deleteStudents)
	return e
}

func rawJSON(c echo.Context, payload string) error {
	if payload == "" {
		payload = "{}"
	}
	return c.JSONBlob(http.StatusOK, []byte(payload))
}

func (api *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		r := Request{
			Method: req.Method,
			Path:   req.URL.Path,
			Query:  req.URL.RawQuery,
			Auth:   req.Header.Get("Authorization"),
		}
		if req.ContentLength != 0 && req.Body != nil {
			var body map[string]interface{}
			if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
				r.Body = body
			}
		}
		api.mu.Lock()
		api.requests = append(api.requests, r)
		api.mu.Unlock()
		c.Set("body", r.Body)
		return next(c)
	}
}

func (api *FakeAPI) authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") != "Bearer "+Token {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authorized, token failed"})
		}
		status := api.FailWith
		if status == 0 {
			api.mu.Lock()
			status = api.failOn[c.Request().Method+" "+c.Request().URL.Path]
			api.mu.Unlock()
		}
		if status != 0 {
			return c.JSON(status, echo.Map{"message": http.StatusText(status)})
		}
		return next(c)
	}
}

func body(c echo.Context) map[string]interface{} {
	b, _ := c.Get("body").(map[string]interface{})
	if b == nil {
		b = make(map[string]interface{})
	}
	return b
}

func str(b map[string]interface{}, key string) string {
	s, _ := b[key].(string)
	return strings.TrimSpace(s)
}

func missing(c echo.Context, keys ...string) bool {
	b := body(c)
	for _, k := range keys {
		if str(b, k) == "" {
			return true
		}
	}
	return false
}

func (api *FakeAPI) nextID(prefix string) string {
	api.seq++
	return fmt.Sprintf("%s-%d", prefix, api.seq)
}

func (api *FakeAPI) login(c echo.Context) error {
	b := body(c)
	fu, ok := api.users[str(b, "email")]
	if !ok || fu.password != str(b, "password") {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}
	if role := str(b, "role"); role != "" && role != fu.user.Role {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Role mismatch"})
	}
	usr := fu.user
	return c.JSON(http.StatusOK, echo.Map{"token": Token, "user": usr, "role": usr.Role, "message": "Login successful"})
}

func (api *FakeAPI) profile(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user": api.users[AdminEmail].user})
}

func (api *FakeAPI) createCampus(c echo.Context) error {
	if missing(c, "name", "city", "phone_no") {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "All fields are required"})
	}
	b := body(c)
	api.mu.Lock()
	defer api.mu.Unlock()
	cmp := campus.Campus{
		ID:      api.nextID("campus"),
		Name:    str(b, "name"),
		City:    str(b, "city"),
		PhoneNo: str(b, "phone_no"),
		Status:  campus.StatusActive,
	}
	api.Campuses = append(api.Campuses, cmp)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Campus created", "campus": cmp})
}

func (api *FakeAPI) listCampuses(c echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"campuses": api.Campuses})
}

func (api *FakeAPI) updateCampus(c echo.Context) error {
	b := body(c)
	api.mu.Lock()
	defer api.mu.Unlock()
	for i, cmp := range api.Campuses {
		if cmp.ID != c.Param("id") {
			continue
		}
		if v := str(b, "name"); v != "" {
			cmp.Name = v
		}
		if v := str(b, "city"); v != "" {
			cmp.City = v
		}
		if v := str(b, "phone_no"); v != "" {
			cmp.PhoneNo = v
		}
		if v := str(b, "status"); v != "" {
			cmp.Status = v
		}
		api.Campuses[i] = cmp
		return c.JSON(http.StatusOK, cmp)
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Campus not found"})
}

func (api *FakeAPI) deleteCampus(c echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	for i, cmp := range api.Campuses {
		if cmp.ID == c.Param("id") {
			api.Campuses = append(api.Campuses[:i], api.Campuses[i+1:]...)
			return c.JSON(http.StatusOK, echo.Map{"message": "Campus deleted"})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Campus not found"})
}

func (api *FakeAPI) campusSummary(c echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	students := api.Students[c.Param("id")]
	return c.JSON(http.StatusOK, echo.Map{
		"totalStudents":       len(students),
		"totalReceived":       0,
		"totalPending":        0,
		"totalDefaulters":     0,
		"summaryStats":        echo.Map{},
		"separateCollections": echo.Map{},
	})
}

func (api *FakeAPI) campusStudents(c echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	students := api.Students[c.Param("id")]
	if students == nil {
		students = make([]student.Student, 0)
	}
	return c.JSON(http.StatusOK, students)
}

func (api *FakeAPI) campusName(id string) string {
	for _, cmp := range api.Campuses {
		if cmp.ID == id {
			return cmp.Name
		}
	}
	return ""
}

func (api *FakeAPI) createAccountant(c echo.Context) error {
	if missing(c, "name", "email", "phone_no", "password", "campus_id") {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "All fields are required"})
	}
	b := body(c)
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, a := range api.Accountants {
		if a.Email == str(b, "email") {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Accountant already exists"})
		}
	}
	acct := accountant.Accountant{
		ID:      api.nextID("acct"),
		Name:    str(b, "name"),
		Email:   str(b, "email"),
		PhoneNo: str(b, "phone_no"),
		Status:  accountant.StatusActive,
		Campus:  accountant.CampusRef{ID: str(b, "campus_id")},
	}
	api.Accountants = append(api.Accountants, acct)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Accountant created", "accountant": acct})
}

func (api *FakeAPI) listAccountants(c echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	accts := make([]accountant.Accountant, len(api.Accountants))
	for i, a := range api.Accountants {
		a.Campus.Name = api.campusName(a.Campus.ID)
		accts[i] = a
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": accts})
}

func (api *FakeAPI) updateAccountant(c echo.Context) error {
	b := body(c)
	api.mu.Lock()
	defer api.mu.Unlock()
	for i, a := range api.Accountants {
		if a.ID != c.Param("id") {
			continue
		}
		if v := str(b, "name"); v != "" {
			a.Name = v
		}
		if v := str(b, "email"); v != "" {
			a.Email = v
		}
		if v := str(b, "phone_no"); v != "" {
			a.PhoneNo = v
		}
		if v := str(b, "campus_id"); v != "" {
			a.Campus = accountant.CampusRef{ID: v}
		}
		if v := str(b, "status"); v != "" {
			a.Status = v
		}
		api.Accountants[i] = a
		return c.JSON(http.StatusOK, echo.Map{"accountant": a})
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Accountant not found"})
}

func (api *FakeAPI) deleteAccountant(c echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	for i, a := range api.Accountants {
		if a.ID == c.Param("id") {
			api.Accountants = append(api.Accountants[:i], api.Accountants[i+1:]...)
			return c.JSON(http.StatusOK, echo.Map{"message": "Accountant deleted"})
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Accountant not found"})
}

func (api *FakeAPI) listDefaulters(c echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	data := api.Defaulters
	if data == nil {
		data = make([]defaulter.Defaulter, 0)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

func (api *FakeAPI) campusDefaulters(c echo.Context) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	data := make([]defaulter.Defaulter, 0)
	for _, d := range api.Defaulters {
		if d.Student.CampusID == c.Param("id") {
			data = append(data, d)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "totalDefaulters": len(data), "data": data})
}

func (api *FakeAPI) studentRecord(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		id = c.QueryParam("studentId")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, students := range api.Students {
		for _, s := range students {
			if s.ID == id {
				return c.JSON(http.StatusOK, echo.Map{"student": s, "payments": []interface{}{}})
			}
		}
	}
	return c.JSON(http.StatusNotFound, echo.Map{"message": "Student not found"})
}

func (api *FakeAPI) createStudent(c echo.Context) error {
	if missing(c, "name", "fatherName", "class", "campus_id") {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Missing student data"})
	}
	b := body(c)
	api.mu.Lock()
	defer api.mu.Unlock()
	s := student.Student{
		ID:         api.nextID("student"),
		Name:       str(b, "name"),
		FatherName: str(b, "fatherName"),
		Class:      str(b, "class"),
		CampusID:   str(b, "campus_id"),
	}
	api.Students[s.CampusID] = append(api.Students[s.CampusID], s)
	slip := echo.Map{"_id": api.nextID("slip"), "student": s.ID}
	return c.JSON(http.StatusCreated, echo.Map{"student": s, "slip": slip})
}

func (api *FakeAPI) deleteStudents(c echo.Context) error {
	ids, _ := body(c)["studentIds"].([]interface{})
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		if s, ok := id.(string); ok {
			drop[s] = true
		}
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	var deleted int
	for campusID, students := range api.Students {
		kept := students[:0]
		for _, s := range students {
			if drop[s.ID] {
				deleted++
				continue
			}
			kept = append(kept, s)
		}
		api.Students[campusID] = kept
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("%d students deleted", deleted)})
}
