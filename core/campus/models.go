package campus

import (
	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/listing"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Campus struct {
	ID              string `json:"_id"`
	Name            string `json:"name"`
	City            string `json:"city"`
	PhoneNo         string `json:"phone_no"`
	Status          string `json:"status"`
	AccountantCount int    `json:"accountantCount"`
}

func (c Campus) IsActive() bool { return c.Status != StatusInactive }

// NewCampus contains information needed to create a new Campus.
type NewCampus struct {
	Name    string `json:"name" validate:"required,notblank"`
	City    string `json:"city" validate:"required,notblank"`
	PhoneNo string `json:"phone_no" validate:"required,notblank"`
}

func (nc *NewCampus) Clean() {
	nc.Name = core.CleanString(nc.Name)
	nc.City = core.CleanString(nc.City)
	nc.PhoneNo = core.CleanString(nc.PhoneNo)
}

// UpdateCampus defines what information may be provided to modify an existing Campus.
type UpdateCampus struct {
	Name    string `json:"name,omitempty"`
	City    string `json:"city,omitempty"`
	PhoneNo string `json:"phone_no,omitempty"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (uc *UpdateCampus) Clean() {
	uc.Name = core.CleanString(uc.Name)
	uc.City = core.CleanString(uc.City)
	uc.PhoneNo = core.CleanString(uc.PhoneNo)
	uc.Status = core.CleanString(uc.Status, true /* lower */)
}

// Summary is the per-campus dashboard returned by the server.
type Summary struct {
	TotalStudents       int                    `json:"totalStudents"`
	TotalReceived       decimal.Decimal        `json:"totalReceived"`
	TotalPending        decimal.Decimal        `json:"totalPending"`
	TotalDefaulters     int                    `json:"totalDefaulters"`
	SummaryStats        map[string]interface{} `json:"summaryStats"`
	SeparateCollections map[string]interface{} `json:"separateCollections"`
}

// SearchFields are matched by the campus list search box.
var SearchFields listing.Fields[Campus] = func(c Campus) []string {
	return []string{c.Name, c.City, c.PhoneNo}
}

// Stats summarizes the whole campus collection, regardless of search or page.
type Stats struct {
	Total       int `json:"total"`
	Active      int `json:"active"`
	Inactive    int `json:"inactive"`
	Accountants int `json:"accountants"`
}

func Summarize(campuses []Campus) Stats {
	var st Stats
	for _, c := range campuses {
		st.Total++
		if c.IsActive() {
			st.Active++
		} else {
			st.Inactive++
		}
		st.Accountants += c.AccountantCount
	}
	return st
}

func View(campuses []Campus, q listing.Query) listing.Page[Campus] {
	return listing.View(campuses, q, SearchFields)
}
