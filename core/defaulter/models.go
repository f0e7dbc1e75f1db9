package defaulter

import (
	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/core/listing"
)

// Statuses
const (
	StatusPaid    = "paid"
	StatusPartial = "partial"
	StatusUnpaid  = "unpaid"
)

// Defaulter links a student to a fee period that is not fully paid.
type Defaulter struct {
	ID               string          `json:"_id"`
	Student          StudentRef      `json:"student"`
	Fee              *FeeRef         `json:"fee,omitempty"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	Status           string          `json:"status"`
}

type StudentRef struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	FatherName string `json:"fatherName"`
	Class      string `json:"class"`
	CampusID   string `json:"campus_id,omitempty"`
}

type FeeRef struct {
	ID    string `json:"_id"`
	Month string `json:"month"`
	Year  int    `json:"year"`
}

// CampusList is the per-campus listing; TotalDefaulters is the server's own count.
type CampusList struct {
	TotalDefaulters int         `json:"totalDefaulters"`
	Defaulters      []Defaulter `json:"data"`
}

var SearchFields listing.Fields[Defaulter] = func(d Defaulter) []string {
	return []string{d.Student.Name, d.Student.FatherName, d.Student.Class, d.Status}
}

type Stats struct {
	Count            int             `json:"count"`
	Paid             int             `json:"paid"`
	Partial          int             `json:"partial"`
	Unpaid           int             `json:"unpaid"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

func Summarize(defaulters []Defaulter) Stats {
	st := Stats{TotalPaid: decimal.Zero, TotalOutstanding: decimal.Zero}
	for _, d := range defaulters {
		st.Count++
		switch d.Status {
		case StatusPaid:
			st.Paid++
		case StatusPartial:
			st.Partial++
		case StatusUnpaid:
			st.Unpaid++
		}
		st.TotalPaid = st.TotalPaid.Add(d.PaidAmount)
		st.TotalOutstanding = st.TotalOutstanding.Add(d.RemainingBalance)
	}
	return st
}

func View(defaulters []Defaulter, q listing.Query) listing.Page[Defaulter] {
	return listing.View(defaulters, q, SearchFields)
}
