package accountant

import (
	"bytes"
	"encoding/json"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/campus"
	"github.com/trezcool/feedesk/core/listing"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Accountant struct {
	ID      string    `json:"_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	PhoneNo string    `json:"phone_no"`
	Status  string    `json:"status"`
	Campus  CampusRef `json:"campus_id"`
}

func (a Accountant) IsActive() bool { return a.Status != StatusInactive }

// CampusRef is the campus an accountant belongs to.
// The server sends either the bare id or the populated campus object.
type CampusRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (ref *CampusRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*ref = CampusRef{}
		return nil
	case len(data) > 0 && data[0] == '"':
		ref.Name = ""
		return json.Unmarshal(data, &ref.ID)
	}
	type plain CampusRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*ref = CampusRef(p)
	return nil
}

// ResolveCampusNames fills in missing campus names from a campus list.
func ResolveCampusNames(accts []Accountant, campuses []campus.Campus) {
	names := make(map[string]string, len(campuses))
	for _, c := range campuses {
		names[c.ID] = c.Name
	}
	for i := range accts {
		if accts[i].Campus.Name == "" {
			accts[i].Campus.Name = names[accts[i].Campus.ID]
		}
	}
}

// NewAccountant contains information needed to create a new Accountant.
type NewAccountant struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	PhoneNo  string `json:"phone_no" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
	CampusID string `json:"campus_id" validate:"required,notblank"`
}

func (na *NewAccountant) Clean() {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.PhoneNo = core.CleanString(na.PhoneNo)
	na.CampusID = core.CleanString(na.CampusID)
}

// UpdateAccountant defines what information may be provided to modify an existing Accountant.
// An empty Password leaves the current one untouched.
type UpdateAccountant struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNo  string `json:"phone_no,omitempty"`
	Password string `json:"password,omitempty"`
	CampusID string `json:"campus_id,omitempty"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (ua *UpdateAccountant) Clean() {
	ua.Name = core.CleanString(ua.Name)
	ua.Email = core.CleanString(ua.Email, true /* lower */)
	ua.PhoneNo = core.CleanString(ua.PhoneNo)
	ua.CampusID = core.CleanString(ua.CampusID)
	ua.Status = core.CleanString(ua.Status, true /* lower */)
}

var SearchFields listing.Fields[Accountant] = func(a Accountant) []string {
	return []string{a.Name, a.Email, a.PhoneNo, a.Campus.Name}
}

type Stats struct {
	Total     int            `json:"total"`
	Active    int            `json:"active"`
	Inactive  int            `json:"inactive"`
	PerCampus map[string]int `json:"per_campus"`
}

func Summarize(accts []Accountant) Stats {
	st := Stats{PerCampus: make(map[string]int)}
	for _, a := range accts {
		st.Total++
		if a.IsActive() {
			st.Active++
		} else {
			st.Inactive++
		}
		st.PerCampus[a.Campus.ID]++
	}
	return st
}

func View(accts []Accountant, q listing.Query) listing.Page[Accountant] {
	return listing.View(accts, q, SearchFields)
}
