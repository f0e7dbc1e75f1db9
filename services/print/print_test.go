package printsvc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/feedesk/core/report"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testDocument() report.Document {
	return report.Compose(report.CashFlowReport{
		GeneratedBy: report.Generator{Name: "Admin", Role: "admin"},
		FilterInfo:  report.FilterInfo{CampusName: "North", Label: "March 2024"},
		Timestamp:   "2024-04-01T09:30:00Z",
		Calculations: report.Calculations{
			BFAmount: dec("1000"), TotalCollection: dec("5000"), TotalExpenses: dec("2000"), CashInHand: dec("4000"),
		},
		Income: report.Breakdown{
			Entries: []report.Entry{
				{Type: "tuitionFee", Amount: dec("4500")},
				{Type: "labFee", Amount: decimal.Zero},
				{Type: "admissionFee", Amount: dec("500")},
			},
			Total:    dec("5000"),
			TotalKey: "totalIncome",
		},
		ClassWiseSummary: []report.ClassSummary{{Class: "5", TotalStudents: 2, TotalCollection: dec("5000")}},
		StudentWiseCollection: []report.StudentCollection{
			{Name: "Ahmed", FatherName: "Khalid", Class: "5", Payments: []report.Payment{{FeeType: "tuitionFee", Amount: dec("2500")}}},
		},
	})
}

func TestMoney(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"4000":       "4,000.00",
		"1234567.5":  "1,234,567.50",
		"-2500.129":  "-2,500.13",
		"999":        "999.00",
		"100000":     "100,000.00",
		"0.5":        "0.50",
		"-1000000.1": "-1,000,000.10",
	}
	for in, want := range tests {
		assert.Equal(t, want, Money(dec(in)), in)
	}
}

func TestRenderHTML(t *testing.T) {
	doc := testDocument()

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, doc, Options{BackURL: "/admin/reports", Exports: []Export{{Label: "PDF", URL: "/x.pdf"}}}))
	out := buf.String()
	assert.Contains(t, out, "<nav")
	assert.Contains(t, out, `href="/x.pdf"`)
	assert.Contains(t, out, "Cash Flow Report")
	assert.Contains(t, out, "4,000.00")
	assert.Contains(t, out, "Tuition Fee")
	assert.Contains(t, out, "Admission Fee")
	assert.NotContains(t, out, "Lab Fee")
	assert.Contains(t, out, "Ahmed")

	buf.Reset()
	require.NoError(t, RenderHTML(&buf, doc, Options{PrintOnly: true, BackURL: "/admin/reports"}))
	assert.NotContains(t, buf.String(), "<nav")
	assert.NotContains(t, buf.String(), "/admin/reports")
	assert.Contains(t, buf.String(), "4,000.00")
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, testDocument()))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))

	daily := report.ComposeDaily(report.DailyCashReport{ReportDate: "2024-03-05", CashInHand: dec("4000")})
	buf.Reset()
	require.NoError(t, RenderPDF(&buf, daily))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestRenderXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderXLSX(&buf, testDocument()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, classesSheet, studentsSheet}, f.GetSheetList())

	title, err := f.GetCellValue(summarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Cash Flow Report", title)

	label, err := f.GetCellValue(summarySheet, "A10")
	require.NoError(t, err)
	assert.Equal(t, "Cash In Hand", label)
	amount, err := f.GetCellValue(summarySheet, "B10")
	require.NoError(t, err)
	assert.Equal(t, "4000", amount)

	rows, err := f.GetRows(studentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ahmed", rows[1][0])
}
