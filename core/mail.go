package core

import (
	"bytes"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"

	appfs "github.com/dannygardner26/GVCS-Main-Page-sub000/fs"
)

const emailTemplatesDir = "assets/templates/email"

// Email categories, used by providers for stats & unsubscribe groups.
const (
	MailCategoryAccount = "account"
	MailCategoryDigest  = "digest"
)

type emailTemplate struct {
	text *texttmpl.Template
	html *htmltmpl.Template
}

var (
	emailTemplates map[string]*emailTemplate
	tmplErr        error
	tmplOnce       sync.Once
	strictTmpl     bool
)

type (
	EmailMessage struct {
		To       []mail.Address
		Cc       []mail.Address
		Bcc      []mail.Address
		ReplyTo  *mail.Address
		Subject  string
		Category string
		BodyStr  string // plain text, used as is

		TemplateName string // file name without ext
		TemplateData interface{}

		// filled by Render
		TextContent string
		HTMLContent string
	}

	// ContextData is what every email template receives; Data is the message's TemplateData.
	ContextData struct {
		AppName         string
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Render fills TextContent & HTMLContent. base carries the app-wide template context.
func (m *EmailMessage) Render(base ContextData) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}

	tmplOnce.Do(loadEmailTemplates)
	if tmplErr != nil {
		return errors.Wrap(tmplErr, "parsing email templates")
	}
	tmpl, ok := emailTemplates[m.TemplateName]
	if !ok {
		return errors.Errorf("unknown email template %q", m.TemplateName)
	}

	base.Data = m.TemplateData
	var buf bytes.Buffer
	if tmpl.text != nil && m.BodyStr == "" {
		if err := tmpl.text.Execute(&buf, base); err != nil {
			return errors.Wrap(err, m.TemplateName+".txt")
		}
		m.TextContent = buf.String()
	}
	if tmpl.html != nil {
		buf.Reset()
		if err := tmpl.html.Execute(&buf, base); err != nil {
			return errors.Wrap(err, m.TemplateName+".gohtml")
		}
		m.HTMLContent = buf.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return m.TextContent != "" || m.HTMLContent != "" }

// ParseEmailTemplates parses the embedded email templates up front.
// strict makes missing template keys an error (DEV & TEST).
func ParseEmailTemplates(logger Logger, strict bool) {
	strictTmpl = strict
	tmplOnce.Do(loadEmailTemplates)
	if tmplErr != nil {
		logger.Error("parsing email templates", tmplErr)
	}
}

// loadEmailTemplates pairs every <name>.txt / <name>.gohtml with the matching _base layout.
func loadEmailTemplates() {
	emailTemplates = make(map[string]*emailTemplate)

	entries, err := fs.ReadDir(appfs.FS, emailTemplatesDir)
	if err != nil {
		tmplErr = err
		return
	}

	missingKey := "missingkey=default"
	if strictTmpl {
		missingKey = "missingkey=error"
	}

	for _, de := range entries {
		fname := de.Name()
		ext := path.Ext(fname)
		if de.IsDir() || strings.HasPrefix(fname, "_") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		files := []string{path.Join(emailTemplatesDir, "_base"+ext), path.Join(emailTemplatesDir, fname)}

		tmpl := emailTemplates[name]
		if tmpl == nil {
			tmpl = new(emailTemplate)
		}
		switch ext {
		case ".txt":
			tmpl.text, err = texttmpl.ParseFS(appfs.FS, files...)
			if err == nil {
				tmpl.text = tmpl.text.Option(missingKey)
			}
		case ".gohtml":
			tmpl.html, err = htmltmpl.ParseFS(appfs.FS, files...)
			if err == nil {
				tmpl.html = tmpl.html.Option(missingKey)
			}
		default:
			continue
		}
		if err != nil {
			tmplErr = errors.Wrap(err, fname)
			continue
		}
		emailTemplates[name] = tmpl
	}
}
