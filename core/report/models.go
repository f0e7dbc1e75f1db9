package report

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// keys holding the declared total of a breakdown
var totalKeys = map[string]bool{
	"totalIncome":   true,
	"totalExpense":  true,
	"totalExpenses": true,
	"total":         true,
}

type Entry struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is an amount-by-type object such as {"tuitionFee": 3000, ..., "totalIncome": 5000}.
// Entries keep the order in which the server sent them.
type Breakdown struct {
	Entries  []Entry
	Total    decimal.Decimal
	TotalKey string
}

func (b *Breakdown) UnmarshalJSON(data []byte) error {
	*b = Breakdown{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("breakdown: expected an object, got %v", tok)
	}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return err
		}
		var amount decimal.Decimal
		if err = amount.UnmarshalJSON(raw); err != nil {
			continue // nested objects are not amounts
		}
		if totalKeys[key] {
			b.Total, b.TotalKey = amount, key
			continue
		}
		b.Entries = append(b.Entries, Entry{Type: key, Amount: amount})
	}
	_, err = dec.Token()
	return err
}

func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(e.Type)
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(e.Amount.String())
	}
	key := b.TotalKey
	if key == "" {
		key = "total"
	}
	if len(b.Entries) > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"` + key + `":` + b.Total.String())
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Sum adds up every entry, zero or not.
func (b Breakdown) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range b.Entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// DailyCashReport is the payload of the daily cash report.
type DailyCashReport struct {
	ReportDate      string          `json:"reportDate"`
	BFAmount        decimal.Decimal `json:"bfAmount"`
	Income          Breakdown       `json:"income"`
	Expenses        Breakdown       `json:"expenses"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	CashInHand      decimal.Decimal `json:"cashInHand"`
}

// CashFlowReport is the payload of the campus cash-flow report.
type CashFlowReport struct {
	Success               bool                `json:"success"`
	GeneratedBy           Generator           `json:"generatedBy"`
	FilterInfo            FilterInfo          `json:"filterInfo"`
	Timestamp             string              `json:"timestamp"`
	Calculations          Calculations        `json:"calculations"`
	Income                Breakdown           `json:"income"`
	ClassWiseSummary      []ClassSummary      `json:"classWiseSummary"`
	StudentWiseCollection []StudentCollection `json:"studentWiseCollection"`
}

type Calculations struct {
	BFAmount        decimal.Decimal `json:"bfAmount"`
	TotalCollection decimal.Decimal `json:"totalCollection"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	CashInHand      decimal.Decimal `json:"cashInHand"`
}

// Generator identifies who produced a report. The server sends a name or a user object.
type Generator struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (g *Generator) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*g = Generator{}
		return json.Unmarshal(data, &g.Name)
	}
	type plain Generator
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = Generator(p)
	return nil
}

func (g Generator) String() string {
	switch {
	case g.Name != "" && g.Role != "":
		return g.Name + " (" + g.Role + ")"
	case g.Name != "":
		return g.Name
	}
	return g.Email
}

type FilterInfo struct {
	FilterType string `json:"filterType"`
	Label      string `json:"label,omitempty"`
	CampusName string `json:"campusName,omitempty"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
}

func (fi FilterInfo) Period() string {
	switch {
	case fi.Label != "":
		return fi.Label
	case fi.StartDate != "" && fi.EndDate != "" && fi.StartDate != fi.EndDate:
		return strings.TrimSpace(fi.StartDate + " to " + fi.EndDate)
	case fi.StartDate != "":
		return fi.StartDate
	}
	return fi.FilterType
}

type ClassSummary struct {
	Class           string          `json:"class"`
	TotalStudents   int             `json:"totalStudents"`
	TotalCollection decimal.Decimal `json:"totalCollection"`
}

type StudentCollection struct {
	StudentID  string          `json:"studentId"`
	Name       string          `json:"studentName"`
	FatherName string          `json:"fatherName"`
	Class      string          `json:"class"`
	Payments   []Payment       `json:"payments"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
}

type Payment struct {
	FeeType string          `json:"feeType"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date,omitempty"`
}
