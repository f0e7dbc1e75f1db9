package printsvc

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core/report"
)

const (
	pageWidth   = 190.0 // A4 minus margins, in mm
	rowHeight   = 7.0
	amountWidth = 45.0
)

// RenderPDF writes doc as an A4 PDF.
func RenderPDF(w io.Writer, doc report.Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// header
	title := doc.Title
	if doc.Campus != "" {
		title += " - " + doc.Campus
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, tr("Period: "+doc.Period), "", 1, "L", false, 0, "")
	generated := "Generated " + doc.GeneratedAt
	if doc.GeneratedBy != "" {
		generated += " by " + doc.GeneratedBy
	}
	pdf.CellFormat(0, 5, tr(generated), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(40, 145, 108)
	pdf.SetLineWidth(0.5)
	pdf.Line(10, pdf.GetY()+2, 200, pdf.GetY()+2)
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(180, 180, 180)
	pdf.Ln(6)

	// summary
	if n := len(doc.Summary); n > 0 {
		colW := pageWidth / float64(n)
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(235, 235, 235)
		for _, l := range doc.Summary {
			pdf.CellFormat(colW, rowHeight, tr(l.Label), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 11)
		for _, l := range doc.Summary {
			pdf.CellFormat(colW, rowHeight+1, Money(l.Amount), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(doc.Issues) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(176, 0, 0)
		for _, issue := range doc.Issues {
			pdf.MultiCell(0, 5, tr("! "+issue), "", "L", false)
		}
		pdf.SetTextColor(0, 0, 0)
	}

	pdfSection(pdf, tr, doc.Income)
	if doc.Expenses != nil {
		pdfSection(pdf, tr, *doc.Expenses)
	}

	if len(doc.Classes) > 0 {
		pdfHeading(pdf, "Class-wise Summary")
		pdfRow(pdf, true, []float64{85, 60, 45}, "Class", "Students", "Collection")
		for _, c := range doc.Classes {
			pdfRow(pdf, false, []float64{85, 60, 45}, tr(c.Class), strconv.Itoa(c.Students), Money(c.Collection))
		}
	}

	if len(doc.Students) > 0 {
		widths := []float64{45, 40, 20, 85}
		pdfHeading(pdf, "Student-wise Collection")
		pdfRow(pdf, true, widths, "Student", "Father's name", "Class", "Payments / Total")
		for _, s := range doc.Students {
			pdfRow(pdf, false, widths, tr(s.Name), tr(s.FatherName), tr(s.Class), "Total "+Money(s.Total))
			pdf.SetFont("Arial", "", 8)
			for _, item := range s.Items {
				pdf.CellFormat(105, 5, "", "", 0, "L", false, 0, "")
				pdf.CellFormat(85-amountWidth, 5, tr(item.Label), "", 0, "L", false, 0, "")
				pdf.CellFormat(amountWidth, 5, Money(item.Amount), "", 1, "R", false, 0, "")
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return errors.Wrap(err, "building pdf")
	}
	return errors.Wrap(pdf.Output(w), "writing pdf")
}

func pdfHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func pdfSection(pdf *gofpdf.Fpdf, tr func(string) string, s report.Section) {
	pdfHeading(pdf, tr(s.Title))
	pdfRow(pdf, true, []float64{pageWidth - amountWidth, amountWidth}, "Type", "Amount")
	for _, l := range s.Lines {
		pdfRow(pdf, false, []float64{pageWidth - amountWidth, amountWidth}, tr(l.Label), Money(l.Amount))
	}
	pdfRow(pdf, true, []float64{pageWidth - amountWidth, amountWidth}, "Total", Money(s.Total))
}

func pdfRow(pdf *gofpdf.Fpdf, bold bool, widths []float64, cells ...string) {
	style := ""
	if bold {
		style = "B"
		pdf.SetFillColor(235, 235, 235)
	}
	pdf.SetFont("Arial", style, 9)
	for i, c := range cells {
		align := "L"
		if i == len(cells)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], rowHeight, c, "1", 0, align, bold, 0, "")
	}
	pdf.Ln(-1)
}
