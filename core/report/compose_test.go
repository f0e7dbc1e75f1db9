package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyPayload = `{
	"reportDate": "2024-03-05",
	"bfAmount": 1000,
	"income": {"tuitionFee": 3000, "labFee": 0, "examFee": 2000, "karateFee": 0, "totalIncome": 5000},
	"expenses": {"utilities": 1500, "stationery": 500, "totalExpense": 2000},
	"remainingAmount": 3000,
	"cashInHand": 4000
}`

const cashFlowPayload = `{
	"success": true,
	"generatedBy": {"name": "Admin", "role": "admin"},
	"filterInfo": {"filterType": "specificMonth", "campusName": "North", "startDate": "2024-03-01", "endDate": "2024-03-31"},
	"timestamp": "2024-04-01T09:30:00Z",
	"calculations": {"bfAmount": 1000, "totalCollection": 5000, "totalExpenses": 2000, "cashInHand": 4000},
	"income": {"tuitionFee": 4500, "labFee": 0, "admissionFee": 500, "totalIncome": 5000},
	"classWiseSummary": [{"class": "5", "totalStudents": 2, "totalCollection": 5000}],
	"studentWiseCollection": [
		{"studentId": "s1", "studentName": "Ahmed", "class": "5", "payments": [{"feeType": "tuitionFee", "amount": 2500}, {"feeType": "admissionFee", "amount": 500}], "totalPaid": 3000},
		{"studentId": "s2", "studentName": "Bilal", "class": "5", "payments": [{"feeType": "tuitionFee", "amount": 2000}], "totalPaid": 2000}
	]
}`

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBreakdown_UnmarshalKeepsOrder(t *testing.T) {
	var b Breakdown
	require.NoError(t, json.Unmarshal([]byte(`{"tuitionFee": 3000, "labFee": "0", "meta": {"x": 1}, "examFee": 2000.5, "totalIncome": 5000.5}`), &b))

	require.Len(t, b.Entries, 3)
	assert.Equal(t, "tuitionFee", b.Entries[0].Type)
	assert.Equal(t, "labFee", b.Entries[1].Type)
	assert.Equal(t, "examFee", b.Entries[2].Type)
	assert.True(t, b.Total.Equal(dec("5000.5")))
	assert.Equal(t, "totalIncome", b.TotalKey)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tuitionFee": 3000, "labFee": 0, "examFee": 2000.5, "totalIncome": 5000.5}`, string(out))
}

func TestComposeDaily_DisplaysServerCashInHand(t *testing.T) {
	var r DailyCashReport
	require.NoError(t, json.Unmarshal([]byte(dailyPayload), &r))

	doc := ComposeDaily(r)
	require.Len(t, doc.Summary, 4)
	assert.True(t, doc.Summary[0].Amount.Equal(dec("1000")))
	assert.True(t, doc.Summary[1].Amount.Equal(dec("5000")))
	assert.True(t, doc.Summary[2].Amount.Equal(dec("2000")))
	assert.Equal(t, "Cash In Hand", doc.Summary[3].Label)
	assert.True(t, doc.Summary[3].Amount.Equal(dec("4000")))
	assert.True(t, doc.Consistent(), doc.Issues)
	require.NotNil(t, doc.Expenses)
	assert.Len(t, doc.Expenses.Lines, 2)
}

func TestComposeDaily_NeverOverridesServerFigure(t *testing.T) {
	var r DailyCashReport
	require.NoError(t, json.Unmarshal([]byte(dailyPayload), &r))
	r.CashInHand = dec("4100")

	doc := ComposeDaily(r)
	assert.True(t, doc.Summary[3].Amount.Equal(dec("4100")))
	require.Len(t, doc.Issues, 1)
	assert.Contains(t, doc.Issues[0], "expected 4000.00")
}

func TestIncomeOmitsZeroRows(t *testing.T) {
	var r DailyCashReport
	require.NoError(t, json.Unmarshal([]byte(dailyPayload), &r))

	income := ComposeDaily(r).Income
	assert.Equal(t, []string{"labFee", "karateFee"}, income.Omitted)

	sum := decimal.Zero
	for _, l := range income.Lines {
		assert.False(t, l.Amount.IsZero(), l.Label)
		sum = sum.Add(l.Amount)
	}
	for _, e := range r.Income.Entries {
		for _, omitted := range income.Omitted {
			if e.Type == omitted {
				sum = sum.Add(e.Amount)
			}
		}
	}
	assert.True(t, sum.Equal(r.Income.Total), "rows add up to %s", sum)
}

func TestCompose(t *testing.T) {
	var r CashFlowReport
	require.NoError(t, json.Unmarshal([]byte(cashFlowPayload), &r))

	doc := Compose(r)
	assert.Equal(t, KindCashFlow, doc.Kind)
	assert.Equal(t, "Admin (admin)", doc.GeneratedBy)
	assert.Equal(t, "01 Apr 2024 09:30", doc.GeneratedAt)
	assert.Equal(t, "North", doc.Campus)
	assert.Equal(t, "2024-03-01 to 2024-03-31", doc.Period)
	assert.True(t, doc.Summary[3].Amount.Equal(dec("4000")))

	require.Len(t, doc.Income.Lines, 2)
	assert.Equal(t, "Tuition Fee", doc.Income.Lines[0].Label)
	assert.Equal(t, "Admission Fee", doc.Income.Lines[1].Label)

	require.Len(t, doc.Classes, 1)
	require.Len(t, doc.Students, 2)
	assert.Len(t, doc.Students[0].Items, 2)
	assert.True(t, doc.Students[0].Total.Equal(dec("3000")))
	assert.True(t, doc.Consistent(), doc.Issues)
}

func TestVerify(t *testing.T) {
	var r CashFlowReport
	require.NoError(t, json.Unmarshal([]byte(cashFlowPayload), &r))
	r.Calculations.CashInHand = dec("3999")
	r.StudentWiseCollection[1].TotalPaid = dec("2100")

	issues := Verify(r)
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0], "cash in hand")
	assert.Contains(t, issues[1], "Bilal")
}

func TestGeneratorFromString(t *testing.T) {
	var r CashFlowReport
	require.NoError(t, json.Unmarshal([]byte(`{"generatedBy": "Accountant Sara"}`), &r))
	assert.Equal(t, "Accountant Sara", r.GeneratedBy.String())
}

func TestComposeDailyUsesClock(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	assert.Equal(t, "05 Mar 2024 18:00", ComposeDaily(DailyCashReport{}).GeneratedAt)
}

func TestFeeLabel(t *testing.T) {
	assert.Equal(t, "Tuition Fee", FeeLabel("tuitionFee"))
	assert.Equal(t, "Annual Charges", FeeLabel("annualCharges"))
	assert.Equal(t, "Utilities", FeeLabel("utilities"))
}

func TestDocument_FileName(t *testing.T) {
	assert.Equal(t, "daily-report-2024-03-05", Document{Kind: KindDaily, Period: "2024-03-05"}.FileName())
	assert.Equal(t, "cashflow-report-March-2024", Document{Kind: KindCashFlow, Period: "March 2024"}.FileName())
}
