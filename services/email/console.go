package emailsvc

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/feedesk/core"
)

var outbox struct {
	sync.Mutex
	messages []core.EmailMessage
}

// Sent returns a copy of every message the console mailers delivered so far.
func Sent() []core.EmailMessage {
	outbox.Lock()
	defer outbox.Unlock()
	return append([]core.EmailMessage(nil), outbox.messages...)
}

// consoleMailer writes each message as a MIME document instead of sending it.
type consoleMailer struct {
	from    mail.Address
	appName string
	out     io.Writer // nil discards the document
	wait    bool
	logger  core.Logger
}

var _ core.EmailService = (*consoleMailer)(nil)

// NewConsoleService logs outgoing mail; used in debug mode.
func NewConsoleService(conf *core.Config, logger core.Logger) core.EmailService {
	return &consoleMailer{
		from:    conf.DefaultFromEmail(),
		appName: conf.AppName,
		out:     log.Writer(),
		logger:  logger,
	}
}

// NewConsoleServiceMock delivers in the caller's goroutine and prints nothing.
// Tests read the delivered messages back with Sent.
func NewConsoleServiceMock(conf *core.Config, logger core.Logger) core.EmailService {
	return &consoleMailer{
		from:    conf.DefaultFromEmail(),
		appName: conf.AppName,
		wait:    true,
		logger:  logger,
	}
}

func (svc *consoleMailer) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if svc.wait {
			svc.deliver(msg)
		} else {
			go svc.deliver(msg)
		}
	}
}

func (svc *consoleMailer) deliver(msg *core.EmailMessage) {
	if err := msg.Render(svc.appName); err != nil {
		svc.logger.Error("rendering email", errors.Wrap(err, "rendering email"))
		return
	}
	if !msg.Deliverable() {
		return
	}

	if svc.out != nil {
		var doc bytes.Buffer
		if err := svc.writeMIME(&doc, *msg); err != nil {
			svc.logger.Error("formatting email", err)
			return
		}
		_, _ = io.Copy(svc.out, &doc)
	}

	outbox.Lock()
	outbox.messages = append(outbox.messages, *msg)
	outbox.Unlock()
}

func (svc *consoleMailer) writeMIME(w io.Writer, msg core.EmailMessage) error {
	header := [][2]string{
		{"From", svc.from.String()},
		{"To", addressList(msg.To)},
		{"Cc", addressList(msg.Cc)},
		{"Bcc", addressList(msg.Bcc)},
		{"Subject", "[" + svc.appName + "] " + msg.Subject},
		{"Date", time.Now().Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
	}
	for _, h := range header {
		if h[1] != "" {
			fmt.Fprintf(w, "%s: %s\r\n", h[0], h[1])
		}
	}

	// text and html alternatives, wrapped in multipart/mixed when files are attached
	alt := multipart.NewWriter(w)
	var mixed *multipart.Writer
	if msg.HasAttachments() {
		mixed = multipart.NewWriter(w)
		fmt.Fprintf(w, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixed.Boundary())
		if _, err := mixed.CreatePart(textproto.MIMEHeader{
			"Content-Type": {"multipart/alternative; boundary=" + alt.Boundary()},
		}); err != nil {
			return errors.Wrap(err, "opening alternatives")
		}
	} else {
		fmt.Fprintf(w, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", alt.Boundary())
	}

	if err := writePart(alt, "text/plain; charset=utf-8", msg.TextContent); err != nil {
		return err
	}
	if msg.HTMLContent != "" {
		if err := writePart(alt, "text/html; charset=utf-8", msg.HTMLContent); err != nil {
			return err
		}
	}
	if err := alt.Close(); err != nil {
		return err
	}

	if mixed == nil {
		return nil
	}
	for _, at := range msg.Attachments {
		part, err := mixed.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {at.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", at.Filename)},
		})
		if err != nil {
			return errors.Wrapf(err, "attaching %s", at.Filename)
		}
		if _, err := io.WriteString(part, at.Content.String()+"\r\n"); err != nil {
			return err
		}
	}
	return mixed.Close()
}

func writePart(mw *multipart.Writer, contentType, body string) error {
	part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {contentType}})
	if err != nil {
		return errors.Wrap(err, contentType)
	}
	_, err = io.WriteString(part, body+"\r\n")
	return err
}

func addressList(addrs []mail.Address) string {
	out := make([]string, len(addrs))
	for i := range addrs {
		out[i] = addrs[i].String()
	}
	return strings.Join(out, ", ")
}
