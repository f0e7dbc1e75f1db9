package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Document kinds
const (
	KindDaily    = "daily"
	KindCashFlow = "cashflow"
)

// Line is one labelled amount of a document.
type Line struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Section is a breakdown table; zero-valued entries are listed in Omitted instead of Lines.
type Section struct {
	Title   string          `json:"title"`
	Lines   []Line          `json:"lines"`
	Omitted []string        `json:"omitted,omitempty"`
	Total   decimal.Decimal `json:"total"`
}

type ClassRow struct {
	Class      string          `json:"class"`
	Students   int             `json:"students"`
	Collection decimal.Decimal `json:"collection"`
}

type StudentRow struct {
	Name       string          `json:"name"`
	FatherName string          `json:"father_name"`
	Class      string          `json:"class"`
	Items      []Line          `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// Document is a report arranged for printing. Figures are copied from the payload as is.
type Document struct {
	Kind        string       `json:"kind"`
	Title       string       `json:"title"`
	Campus      string       `json:"campus,omitempty"`
	Period      string       `json:"period"`
	GeneratedBy string       `json:"generated_by,omitempty"`
	GeneratedAt string       `json:"generated_at"`
	Summary     []Line       `json:"summary"`
	Income      Section      `json:"income"`
	Expenses    *Section     `json:"expenses,omitempty"`
	Classes     []ClassRow   `json:"classes,omitempty"`
	Students    []StudentRow `json:"students,omitempty"`
	Issues      []string     `json:"issues,omitempty"`
}

// Consistent reports whether the server figures passed every cross-check.
func (doc Document) Consistent() bool { return len(doc.Issues) == 0 }

// FileName is a filesystem friendly name for exports, without extension.
func (doc Document) FileName() string {
	name := doc.Kind + "-report"
	if p := strings.TrimSpace(doc.Period); p != "" {
		name += "-" + p
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '-'
	}, name)
}

var nowFunc = time.Now

// Compose arranges a cash-flow report for printing.
func Compose(r CashFlowReport) Document {
	doc := Document{
		Kind:        KindCashFlow,
		Title:       "Cash Flow Report",
		Campus:      r.FilterInfo.CampusName,
		Period:      r.FilterInfo.Period(),
		GeneratedBy: r.GeneratedBy.String(),
		GeneratedAt: generatedAt(r.Timestamp),
		Summary: []Line{
			{Label: "Brought Forward", Amount: r.Calculations.BFAmount},
			{Label: "Total Collection", Amount: r.Calculations.TotalCollection},
			{Label: "Total Expenses", Amount: r.Calculations.TotalExpenses},
			{Label: "Cash In Hand", Amount: r.Calculations.CashInHand},
		},
		Income: section("Income", r.Income),
	}
	for _, cs := range r.ClassWiseSummary {
		doc.Classes = append(doc.Classes, ClassRow{Class: cs.Class, Students: cs.TotalStudents, Collection: cs.TotalCollection})
	}
	for _, sc := range r.StudentWiseCollection {
		row := StudentRow{Name: sc.Name, FatherName: sc.FatherName, Class: sc.Class, Total: decimal.Zero}
		for _, p := range sc.Payments {
			label := p.FeeType
			if p.Date != "" {
				label = fmt.Sprintf("%s (%s)", p.FeeType, p.Date)
			}
			row.Items = append(row.Items, Line{Label: label, Amount: p.Amount})
			row.Total = row.Total.Add(p.Amount)
		}
		doc.Students = append(doc.Students, row)
	}
	doc.Issues = Verify(r)
	return doc
}

// ComposeDaily arranges a daily cash report for printing.
func ComposeDaily(r DailyCashReport) Document {
	expenses := section("Expenses", r.Expenses)
	doc := Document{
		Kind:        KindDaily,
		Title:       "Daily Cash Report",
		Period:      r.ReportDate,
		GeneratedAt: generatedAt(""),
		Summary: []Line{
			{Label: "Brought Forward", Amount: r.BFAmount},
			{Label: "Total Collection", Amount: r.Income.Total},
			{Label: "Total Expenses", Amount: r.Expenses.Total},
			{Label: "Cash In Hand", Amount: r.CashInHand},
		},
		Income:   section("Income", r.Income),
		Expenses: &expenses,
	}
	doc.Issues = VerifyDaily(r)
	return doc
}

func section(title string, b Breakdown) Section {
	s := Section{Title: title, Total: b.Total}
	for _, e := range b.Entries {
		if e.Amount.IsZero() {
			s.Omitted = append(s.Omitted, e.Type)
			continue
		}
		s.Lines = append(s.Lines, Line{Label: FeeLabel(e.Type), Amount: e.Amount})
	}
	return s
}

// FeeLabel turns a payload key such as "tuitionFee" into "Tuition Fee".
func FeeLabel(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteString(strings.ToUpper(string(r)))
		case r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r)
		case r == '_':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func generatedAt(ts string) string {
	if ts != "" {
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if t, err := time.Parse(layout, ts); err == nil {
				return t.Format("02 Jan 2006 15:04")
			}
		}
		return ts
	}
	return nowFunc().Format("02 Jan 2006 15:04")
}

// Verify cross-checks the arithmetic of a cash-flow payload. It never alters the figures.
func Verify(r CashFlowReport) []string {
	var issues []string
	c := r.Calculations
	if want := c.BFAmount.Add(c.TotalCollection).Sub(c.TotalExpenses); !want.Equal(c.CashInHand) {
		issues = append(issues, fmt.Sprintf("cash in hand is %s, expected %s", c.CashInHand.StringFixed(2), want.StringFixed(2)))
	}
	issues = append(issues, checkBreakdown("income", r.Income)...)
	for _, sc := range r.StudentWiseCollection {
		if sc.TotalPaid.IsZero() {
			continue
		}
		sum := decimal.Zero
		for _, p := range sc.Payments {
			sum = sum.Add(p.Amount)
		}
		if !sum.Equal(sc.TotalPaid) {
			issues = append(issues, fmt.Sprintf("payments of %s add up to %s, declared %s", sc.Name, sum.StringFixed(2), sc.TotalPaid.StringFixed(2)))
		}
	}
	return issues
}

// VerifyDaily cross-checks the arithmetic of a daily cash payload.
func VerifyDaily(r DailyCashReport) []string {
	var issues []string
	if want := r.BFAmount.Add(r.Income.Total).Sub(r.Expenses.Total); !want.Equal(r.CashInHand) {
		issues = append(issues, fmt.Sprintf("cash in hand is %s, expected %s", r.CashInHand.StringFixed(2), want.StringFixed(2)))
	}
	issues = append(issues, checkBreakdown("income", r.Income)...)
	issues = append(issues, checkBreakdown("expenses", r.Expenses)...)
	return issues
}

func checkBreakdown(name string, b Breakdown) []string {
	if b.TotalKey == "" {
		return nil
	}
	if sum := b.Sum(); !sum.Equal(b.Total) {
		return []string{fmt.Sprintf("%s rows add up to %s, declared %s", name, sum.StringFixed(2), b.Total.StringFixed(2))}
	}
	return nil
}
