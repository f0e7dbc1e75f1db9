package printsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/feedesk/core/report"
)

const (
	summarySheet  = "Summary"
	classesSheet  = "Classes"
	studentsSheet = "Students"
)

// RenderXLSX writes doc as a workbook: summary and breakdowns, then classes, then students.
func RenderXLSX(w io.Writer, doc report.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating style")
	}

	sw := &sheetWriter{f: f, sheet: summarySheet, bold: bold}
	sw.row(true, doc.Title)
	sw.row(false, "Campus", doc.Campus)
	sw.row(false, "Period", doc.Period)
	sw.row(false, "Generated at", doc.GeneratedAt)
	sw.row(false, "Generated by", doc.GeneratedBy)
	sw.skip()
	for _, l := range doc.Summary {
		sw.row(false, l.Label, l.Amount.InexactFloat64())
	}
	for _, issue := range doc.Issues {
		sw.row(false, "Check", issue)
	}

	sections := []report.Section{doc.Income}
	if doc.Expenses != nil {
		sections = append(sections, *doc.Expenses)
	}
	for _, s := range sections {
		sw.skip()
		sw.row(true, s.Title, "Amount")
		for _, l := range s.Lines {
			sw.row(false, l.Label, l.Amount.InexactFloat64())
		}
		sw.row(true, "Total", s.Total.InexactFloat64())
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 28)
	_ = f.SetColWidth(summarySheet, "B", "B", 18)

	if len(doc.Classes) > 0 {
		f.NewSheet(classesSheet)
		cw := &sheetWriter{f: f, sheet: classesSheet, bold: bold}
		cw.row(true, "Class", "Students", "Collection")
		for _, c := range doc.Classes {
			cw.row(false, c.Class, c.Students, c.Collection.InexactFloat64())
		}
		if cw.err != nil {
			return cw.err
		}
	}

	if len(doc.Students) > 0 {
		f.NewSheet(studentsSheet)
		stw := &sheetWriter{f: f, sheet: studentsSheet, bold: bold}
		stw.row(true, "Student", "Father's name", "Class", "Payment", "Amount")
		for _, s := range doc.Students {
			for _, item := range s.Items {
				stw.row(false, s.Name, s.FatherName, s.Class, item.Label, item.Amount.InexactFloat64())
			}
			stw.row(true, s.Name, "", s.Class, "Total", s.Total.InexactFloat64())
		}
		_ = f.SetColWidth(studentsSheet, "A", "D", 22)
		if stw.err != nil {
			return stw.err
		}
	}

	if sw.err != nil {
		return sw.err
	}
	return errors.Wrap(f.Write(w), "writing workbook")
}

// sheetWriter appends rows to a sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	bold  int
	next  int
	err   error
}

func (sw *sheetWriter) skip() { sw.next++ }

func (sw *sheetWriter) row(bold bool, values ...interface{}) {
	if sw.err != nil {
		return
	}
	sw.next++
	first, err := excelize.CoordinatesToCellName(1, sw.next)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetSheetRow(sw.sheet, first, &values); err != nil {
		sw.err = errors.Wrapf(err, "writing %s row %d", sw.sheet, sw.next)
		return
	}
	if bold {
		last, _ := excelize.CoordinatesToCellName(len(values), sw.next)
		sw.err = sw.f.SetCellStyle(sw.sheet, first, last, sw.bold)
	}
}
