package student

import (
	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/core"
	"github.com/trezcool/feedesk/core/listing"
)

// Student balances are computed by the server; the dashboard only displays them.
type Student struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	FatherName      string          `json:"fatherName"`
	Class           string          `json:"class"`
	CampusID        string          `json:"campus_id,omitempty"`
	TuitionFee      decimal.Decimal `json:"tuitionFee"`
	LabFee          decimal.Decimal `json:"labFee"`
	ExamFee         decimal.Decimal `json:"examFee"`
	KarateFee       decimal.Decimal `json:"karateFee"`
	AdmissionFee    decimal.Decimal `json:"admissionFee"`
	RegistrationFee decimal.Decimal `json:"registrationFee"`
	AnnualCharges   decimal.Decimal `json:"annualCharges"`
	AllTotal        decimal.Decimal `json:"allTotal"`
	FeePaid         decimal.Decimal `json:"feePaid"`
	CurBalance      decimal.Decimal `json:"curBalance"`
}

// Consistent reports whether the server balance matches allTotal - feePaid.
// It is only used to flag suspicious rows; the shown balance is always CurBalance.
func (s Student) Consistent() bool {
	return s.AllTotal.Sub(s.FeePaid).Equal(s.CurBalance)
}

func (s Student) Cleared() bool { return !s.CurBalance.IsPositive() }

// NewStudent is the payload of the create-and-generate-slip operation.
type NewStudent struct {
	Name            string          `json:"name" validate:"required,notblank"`
	FatherName      string          `json:"fatherName" validate:"required,notblank"`
	Class           string          `json:"class" validate:"required,notblank"`
	CampusID        string          `json:"campus_id" validate:"required,notblank"`
	TuitionFee      decimal.Decimal `json:"tuitionFee"`
	LabFee          decimal.Decimal `json:"labFee"`
	ExamFee         decimal.Decimal `json:"examFee"`
	KarateFee       decimal.Decimal `json:"karateFee"`
	AdmissionFee    decimal.Decimal `json:"admissionFee"`
	RegistrationFee decimal.Decimal `json:"registrationFee"`
	AnnualCharges   decimal.Decimal `json:"annualCharges"`
	FeePaid         decimal.Decimal `json:"feePaid"`
}

func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.FatherName = core.CleanString(ns.FatherName)
	ns.Class = core.CleanString(ns.Class)
	ns.CampusID = core.CleanString(ns.CampusID)
}

// Created is the answer to a create-and-generate-slip request.
type Created struct {
	Student Student                `json:"student"`
	Slip    map[string]interface{} `json:"slip"`
}

// Record is a single fee record as returned by the server, displayed untouched.
type Record map[string]interface{}

var SearchFields listing.Fields[Student] = func(s Student) []string {
	return []string{s.Name, s.FatherName}
}

type Stats struct {
	Count        int             `json:"count"`
	Cleared      int             `json:"cleared"`
	WithBalance  int             `json:"with_balance"`
	Inconsistent int             `json:"inconsistent"`
	TotalBilled  decimal.Decimal `json:"total_billed"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// Summarize adds up the server-provided amounts of every student.
func Summarize(students []Student) Stats {
	st := Stats{TotalBilled: decimal.Zero, TotalPaid: decimal.Zero, TotalBalance: decimal.Zero}
	for _, s := range students {
		st.Count++
		if s.Cleared() {
			st.Cleared++
		} else {
			st.WithBalance++
		}
		if !s.Consistent() {
			st.Inconsistent++
		}
		st.TotalBilled = st.TotalBilled.Add(s.AllTotal)
		st.TotalPaid = st.TotalPaid.Add(s.FeePaid)
		st.TotalBalance = st.TotalBalance.Add(s.CurBalance)
	}
	return st
}

func View(students []Student, q listing.Query) listing.Page[Student] {
	return listing.View(students, q, SearchFields)
}
