package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/core"
)

const dateLayout = "2006-01-02"

// PeriodKind selects the reporting period of a cash-flow report.
type PeriodKind string

const (
	Today         PeriodKind = "today"
	Yesterday     PeriodKind = "yesterday"
	ThisMonth     PeriodKind = "thisMonth"
	SpecificDate  PeriodKind = "specificDate"
	DateRange     PeriodKind = "dateRange"
	SpecificMonth PeriodKind = "specificMonth"
)

var (
	errInvalidFilter = errors.New("invalid report filter")
	periodKinds      = []PeriodKind{Today, Yesterday, ThisMonth, SpecificDate, DateRange, SpecificMonth}
)

func PeriodKinds() []PeriodKind { return periodKinds }

func (k PeriodKind) Valid() bool {
	for _, pk := range periodKinds {
		if k == pk {
			return true
		}
	}
	return false
}

// Filter describes which campus cash-flow report to request.
type Filter struct {
	CampusID  string     `json:"campusId" query:"campus_id"`
	Kind      PeriodKind `json:"filterType" query:"period"`
	Date      string     `json:"date,omitempty" query:"date"`
	StartDate string     `json:"startDate,omitempty" query:"start_date"`
	EndDate   string     `json:"endDate,omitempty" query:"end_date"`
	Month     int        `json:"month,omitempty" query:"month"`
	Year      int        `json:"year,omitempty" query:"year"`
}

// Validate checks that the parameters required by Kind are present and well formed.
func (f Filter) Validate() error {
	var flds []core.FieldError
	add := func(field, msg string) { flds = append(flds, core.FieldError{Field: field, Error: msg}) }

	if f.CampusID == "" {
		add("campusId", "this field is required")
	}
	switch f.Kind {
	case Today, Yesterday, ThisMonth:
	case SpecificDate:
		if msg := checkDate(f.Date); msg != "" {
			add("date", msg)
		}
	case DateRange:
		startMsg, endMsg := checkDate(f.StartDate), checkDate(f.EndDate)
		if startMsg != "" {
			add("startDate", startMsg)
		}
		if endMsg != "" {
			add("endDate", endMsg)
		}
		if startMsg == "" && endMsg == "" && f.EndDate < f.StartDate {
			add("endDate", "end date must not be before start date")
		}
	case SpecificMonth:
		if f.Month < 1 || f.Month > 12 {
			add("month", "month must be between 1 and 12")
		}
		if f.Year < 2000 {
			add("year", "this field is required")
		}
	default:
		add("filterType", fmt.Sprintf("unknown period %q", f.Kind))
	}

	if len(flds) > 0 {
		return core.NewValidationError(errInvalidFilter, flds...)
	}
	return nil
}

// Body is the request payload: only the parameters relevant to Kind are sent.
func (f Filter) Body() map[string]interface{} {
	body := map[string]interface{}{
		"campusId":   f.CampusID,
		"filterType": string(f.Kind),
	}
	switch f.Kind {
	case SpecificDate:
		body["date"] = f.Date
	case DateRange:
		body["startDate"] = f.StartDate
		body["endDate"] = f.EndDate
	case SpecificMonth:
		body["month"] = f.Month
		body["year"] = f.Year
	}
	return body
}

// Label describes the period in words.
func (f Filter) Label() string {
	switch f.Kind {
	case Today:
		return "Today"
	case Yesterday:
		return "Yesterday"
	case ThisMonth:
		return "This month"
	case SpecificDate:
		return f.Date
	case DateRange:
		return f.StartDate + " to " + f.EndDate
	case SpecificMonth:
		if f.Month >= 1 && f.Month <= 12 {
			return fmt.Sprintf("%s %d", time.Month(f.Month), f.Year)
		}
	}
	return string(f.Kind)
}

// DailyFilter requests the daily cash report of one day.
type DailyFilter struct {
	Date     string          `json:"date" query:"date"`
	BFAmount decimal.Decimal `json:"bfAmount" query:"bf_amount"`
}

// Body is the request payload; the amount goes out as a JSON number like every amount of the API.
func (f DailyFilter) Body() map[string]interface{} {
	return map[string]interface{}{
		"date":     f.Date,
		"bfAmount": json.Number(f.BFAmount.String()),
	}
}

func (f DailyFilter) Validate() error {
	var flds []core.FieldError
	if msg := checkDate(f.Date); msg != "" {
		flds = append(flds, core.FieldError{Field: "date", Error: msg})
	}
	if f.BFAmount.IsNegative() {
		flds = append(flds, core.FieldError{Field: "bfAmount", Error: "amount cannot be negative"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(errInvalidFilter, flds...)
	}
	return nil
}

func checkDate(s string) string {
	if s == "" {
		return "this field is required"
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "expected a date as YYYY-MM-DD"
	}
	return ""
}
