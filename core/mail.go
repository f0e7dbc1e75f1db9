package core

import (
	"bytes"
	"encoding/base64"
	htmltmpl "html/template"
	"io"
	"io/fs"
	"io/ioutil"
	"net/http"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/assets"
)

const mailTemplatesDir = "templates/email"

var (
	mailFS       fs.FS = assets.FS
	mailTmpl     *mailTemplates
	mailTmplErr  error
	mailTmplOnce sync.Once

	errEmptyAttachment = errors.New("attachment is empty")
)

type (
	// Attachment holds a file already encoded in base64.
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	// EmailMessage is rendered either from PlainText or from the named template pair
	// (<name>.txt and <name>.gohtml under assets/templates/email).
	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		PlainText   string
		Attachments []Attachment

		TemplateName string
		TemplateData interface{}

		// filled by Render
		TextContent string
		HTMLContent string
	}

	EmailService interface {
		// SendMessages hands the messages over for delivery and returns without waiting.
		SendMessages(messages ...*EmailMessage)
	}

	mailTemplates struct {
		text map[string]*texttmpl.Template
		html map[string]*htmltmpl.Template
	}

	// mailContext is the dot of every mail template.
	mailContext struct {
		AppName string
		Data    interface{}
	}
)

// Render fills TextContent and HTMLContent. A plain-text message skips the templates.
func (m *EmailMessage) Render(appName string) error {
	if m.PlainText != "" {
		m.TextContent = m.PlainText
	}
	if m.TemplateName == "" {
		return nil
	}

	mailTmplOnce.Do(func() { mailTmpl, mailTmplErr = loadMailTemplates(mailFS) })
	if mailTmplErr != nil {
		return mailTmplErr
	}
	txt, hasText := mailTmpl.text[m.TemplateName]
	html, hasHTML := mailTmpl.html[m.TemplateName]
	if !hasText && !hasHTML {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}

	dot := mailContext{AppName: appName, Data: m.TemplateData}
	var buf bytes.Buffer
	if hasText && m.PlainText == "" {
		if err := txt.ExecuteTemplate(&buf, "base", dot); err != nil {
			return errors.Wrap(err, "rendering text content")
		}
		m.TextContent = buf.String()
	}
	if hasHTML {
		buf.Reset()
		if err := html.ExecuteTemplate(&buf, "base", dot); err != nil {
			return errors.Wrap(err, "rendering html content")
		}
		m.HTMLContent = buf.String()
	}
	return nil
}

// Attach reads r fully and adds it as a base64 attachment.
// The content type is sniffed when ct is not given.
func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading attachment")
	}
	if len(raw) == 0 {
		return errEmptyAttachment
	}

	contentType := http.DetectContentType(raw)
	if len(ct) > 0 {
		contentType = ct[0]
	}
	m.Attachments = append(m.Attachments, Attachment{
		Content:     bytes.NewBufferString(base64.StdEncoding.EncodeToString(raw)),
		ContentType: contentType,
		Filename:    filename,
	})
	return nil
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return m.TextContent != "" || m.HTMLContent != "" }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }

// Deliverable reports whether a mailer should bother sending m.
func (m *EmailMessage) Deliverable() bool {
	return m.HasRecipients() && (m.HasContent() || m.HasAttachments())
}

// loadMailTemplates parses every template pair in the mail directory against its layout.
// Files starting with "_" are layouts.
func loadMailTemplates(fsys fs.FS) (*mailTemplates, error) {
	files, err := fs.Glob(fsys, path.Join(mailTemplatesDir, "*"))
	if err != nil {
		return nil, errors.Wrap(err, "listing email templates")
	}

	set := &mailTemplates{
		text: make(map[string]*texttmpl.Template),
		html: make(map[string]*htmltmpl.Template),
	}
	for _, file := range files {
		base := path.Base(file)
		if strings.HasPrefix(base, "_") {
			continue
		}
		name := strings.TrimSuffix(base, path.Ext(base))

		switch path.Ext(base) {
		case ".txt":
			t, err := texttmpl.ParseFS(fsys, path.Join(mailTemplatesDir, "_base.txt"), file)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", base)
			}
			set.text[name] = t.Option("missingkey=error")
		case ".gohtml":
			t, err := htmltmpl.ParseFS(fsys, path.Join(mailTemplatesDir, "_base.gohtml"), file)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing %s", base)
			}
			set.html[name] = t.Option("missingkey=error")
		}
	}
	return set, nil
}
