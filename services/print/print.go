// Package printsvc renders composed reports as HTML, PDF and spreadsheet documents.
package printsvc

import (
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/feedesk/assets"
	"github.com/trezcool/feedesk/core/report"
)

const reportTemplate = "templates/print/report.gohtml"

var (
	tmpl     *template.Template
	tmplErr  error
	tmplOnce sync.Once
)

// Export is a download link shown next to the on-screen report.
type Export struct {
	Label string
	URL   string
}

type Options struct {
	// PrintOnly drops every navigation element: only the document is rendered.
	PrintOnly bool
	BackURL   string
	Exports   []Export
}

type page struct {
	Options
	Doc report.Document
}

func parse() {
	tmpl, tmplErr = template.New("report.gohtml").
		Funcs(template.FuncMap{"money": Money}).
		ParseFS(assets.FS, reportTemplate)
	if tmplErr != nil {
		tmplErr = errors.Wrap(tmplErr, "parsing print template")
	}
}

// RenderHTML writes the printable HTML rendering of doc.
func RenderHTML(w io.Writer, doc report.Document, opts Options) error {
	tmplOnce.Do(parse)
	if tmplErr != nil {
		return tmplErr
	}
	if opts.BackURL == "" {
		opts.BackURL = "/"
	}
	return errors.Wrap(tmpl.Execute(w, page{Options: opts, Doc: doc}), "rendering report")
}

// Money formats an amount with two decimals and thousands separators: 12,345.50.
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
