package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	textTemplate "text/template"

	"gopkg.in/yaml.v3"
)

//go:embed emails/*
var emailTemplates embed.FS

// EmailConfig holds email configuration from emails/config.yaml
type EmailConfig struct {
	Branding struct {
		Name    string `yaml:"name"`
		Website string `yaml:"website"`
	} `yaml:"branding"`

	Subjects struct {
		Approval string `yaml:"approval"`
	} `yaml:"subjects"`

	Approval struct {
		Greeting  string `yaml:"greeting"`
		Message   string `yaml:"message"`
		Signature string `yaml:"signature"`
	} `yaml:"approval"`
}

// DefaultEmailConfig is used when the embedded config cannot be read
func DefaultEmailConfig() *EmailConfig {
	cfg := &EmailConfig{}
	cfg.Branding.Name = "Admissions Office"
	cfg.Subjects.Approval = "Admission Approved"
	cfg.Approval.Greeting = "Hello {{.Name}},"
	cfg.Approval.Message = "Your admission has been approved!"
	return cfg
}

// LoadEmailConfig loads email configuration from the embedded config.yaml
func LoadEmailConfig() (*EmailConfig, error) {
	data, err := emailTemplates.ReadFile("emails/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read email config: %w", err)
	}

	var config EmailConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse email config: %w", err)
	}

	return &config, nil
}

// ApprovalData holds data for the approval email templates
type ApprovalData struct {
	Name      string
	Subject   string
	BrandName string
	Website   string
	Greeting  string
	Message   string
	Signature string
}

// NewApprovalData builds template data for the named student
func (c *EmailConfig) NewApprovalData(name string) ApprovalData {
	return ApprovalData{
		Name:      name,
		Subject:   c.Subjects.Approval,
		BrandName: c.Branding.Name,
		Website:   c.Branding.Website,
		Greeting:  renderGreeting(c.Approval.Greeting, name),
		Message:   c.Approval.Message,
		Signature: c.Approval.Signature,
	}
}

// renderGreeting fills {{.Name}} in the configured greeting.
// A greeting that does not parse is used as written.
func renderGreeting(greeting, name string) string {
	tmpl, err := textTemplate.New("greeting").Parse(greeting)
	if err != nil {
		return greeting
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return greeting
	}
	return buf.String()
}

// RenderApprovalText renders the plain text approval email
func RenderApprovalText(data ApprovalData) (string, error) {
	tmplData, err := emailTemplates.ReadFile("emails/approval.txt")
	if err != nil {
		return "", fmt.Errorf("failed to read approval.txt: %w", err)
	}

	tmpl, err := textTemplate.New("approval-text").Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("failed to parse approval text template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute approval text template: %w", err)
	}

	return buf.String(), nil
}

// RenderApprovalHTML renders the HTML approval email
func RenderApprovalHTML(data ApprovalData) (string, error) {
	tmplData, err := emailTemplates.ReadFile("emails/approval.html")
	if err != nil {
		return "", fmt.Errorf("failed to read approval.html: %w", err)
	}

	tmpl, err := template.New("approval").Parse(string(tmplData))
	if err != nil {
		return "", fmt.Errorf("failed to parse approval template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute approval template: %w", err)
	}

	return buf.String(), nil
}
