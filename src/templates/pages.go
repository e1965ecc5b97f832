package templates

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed pages/*.html
var pageTemplates embed.FS

// Page template names
const (
	PageRegister = "register.html"
	PageSuccess  = "success.html"
	PageLogin    = "login.html"
	PageAdmin    = "admin.html"
)

// LoadPages parses every embedded page template
func LoadPages() (*template.Template, error) {
	tmpl, err := template.New("pages").ParseFS(pageTemplates, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return tmpl, nil
}

// MustLoadPages is LoadPages for static wiring; the templates are embedded
// so a failure is a build defect
func MustLoadPages() *template.Template {
	tmpl, err := LoadPages()
	if err != nil {
		panic(err)
	}
	return tmpl
}
