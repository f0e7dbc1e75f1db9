package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/core/report"
	printsvc "github.com/trezcool/feedesk/services/print"
)

func (cli *commandLine) reportDailyCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	date := fs.String("date", "", "The report day, as YYYY-MM-DD.")
	bf := fs.String("bf", "0", "The amount brought forward from the previous day.")
	output := fs.String("o", "", "Write the report to this .pdf, .xlsx or .html file instead of printing a summary.")

	return func(ctx context.Context) error {
		if *date == "" {
			return usageErr(fs)
		}
		if _, err := cli.mgr.Require(); err != nil {
			return err
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(*bf))
		if err != nil {
			return errors.Errorf("-bf: %q is not an amount", *bf)
		}

		r, err := cli.reportSvc.DailyCash(ctx, report.DailyFilter{Date: *date, BFAmount: amount})
		if err != nil {
			return err
		}
		return cli.output(report.ComposeDaily(r), *output)
	}
}

func (cli *commandLine) reportCashFlowCmd(fs *flag.FlagSet) func(ctx context.Context) error {
	var f report.Filter
	campusID := fs.String("campus", "", "The campus of the report (admins only).")
	fs.StringVar((*string)(&f.Kind), "period", "", fmt.Sprintf("One of %v.", report.PeriodKinds()))
	fs.StringVar(&f.Date, "date", "", "The day, with -period specificDate.")
	fs.StringVar(&f.StartDate, "start", "", "The first day, with -period dateRange.")
	fs.StringVar(&f.EndDate, "end", "", "The last day, with -period dateRange.")
	fs.IntVar(&f.Month, "month", 0, "The month (1-12), with -period specificMonth.")
	fs.IntVar(&f.Year, "year", 0, "The year, with -period specificMonth.")
	output := fs.String("o", "", "Write the report to this .pdf, .xlsx or .html file instead of printing a summary.")

	return func(ctx context.Context) error {
		if f.Kind == "" {
			return usageErr(fs)
		}
		id, err := cli.campusOf(fs, *campusID)
		if err != nil {
			return err
		}
		f.CampusID = id

		r, err := cli.reportSvc.CampusCashFlow(ctx, f)
		if err != nil {
			return err
		}
		doc := report.Compose(r)
		if doc.Period == "" {
			doc.Period = f.Label()
		}
		return cli.output(doc, *output)
	}
}

// output prints a summary of doc, or renders it to path in the format given by its extension.
func (cli *commandLine) output(doc report.Document, path string) error {
	if path == "" {
		cli.printSummary(doc)
		return nil
	}

	var render func(f *os.File) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		render = func(f *os.File) error { return printsvc.RenderPDF(f, doc) }
	case ".xlsx":
		render = func(f *os.File) error { return printsvc.RenderXLSX(f, doc) }
	case ".html", ".htm":
		render = func(f *os.File) error {
			return printsvc.RenderHTML(f, doc, printsvc.Options{PrintOnly: true})
		}
	default:
		return errors.Errorf("-o: unsupported file type %q, use .pdf, .xlsx or .html", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating report file")
	}
	if err = render(f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing report file")
	}
	fmt.Fprintf(cli.out, "%s written to %s\n", doc.Title, path)
	return nil
}

func (cli *commandLine) printSummary(doc report.Document) {
	title := doc.Title
	if doc.Campus != "" {
		title += " - " + doc.Campus
	}
	fmt.Fprintf(cli.out, "%s\nPeriod: %s\n\n", title, doc.Period)

	tw := newTable(cli.out)
	for _, l := range doc.Summary {
		fmt.Fprintf(tw, "%s\t%s\n", l.Label, printsvc.Money(l.Amount))
	}
	_ = tw.Flush()

	for _, issue := range doc.Issues {
		fmt.Fprintf(cli.out, "! %s\n", issue)
	}
}
