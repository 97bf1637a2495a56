package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"sheeets/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Each email is three files: <name>_subject.txt, <name>.txt and <name>.html.
var (
	textTemplates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
)

type templateRenderer struct{}

// NewTemplateRenderer renders the embedded email templates.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return templateRenderer{}
}

func (templateRenderer) Render(name string, data any) (subject, htmlBody, textBody string, err error) {
	if htmlTemplates.Lookup(name+".html") == nil {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, name+"_subject.txt", data); err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := htmlTemplates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	htmlBody = buf.String()

	buf.Reset()
	if err := textTemplates.ExecuteTemplate(&buf, name+".txt", data); err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return subject, htmlBody, buf.String(), nil
}
