// Package templates renders the transactional emails sent by the worker.
package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

// Template names.
const (
	Welcome = "welcome"
)

// Brand holds the company details shown in every email.
type Brand struct {
	CompanyName string
	SupportURL  string
	LoginURL    string
}

// WelcomeData builds the job data for the welcome template.
func WelcomeData(b Brand, name, email string) map[string]any {
	return map[string]any{
		"Name":        name,
		"Email":       email,
		"CompanyName": b.CompanyName,
		"SupportURL":  b.SupportURL,
		"LoginURL":    b.LoginURL,
	}
}

type pair struct {
	subject string
	text    *texttpl.Template
	html    *htmpl.Template
}

var registry = map[string]pair{
	Welcome: {
		subject: "Welcome to {{.CompanyName}}",
		text: texttpl.Must(texttpl.New("welcome.txt").Parse(`Hi {{if .Name}}{{.Name}}{{else}}there{{end}},

Your {{.CompanyName}} account for {{.Email}} is ready.
Sign in any time: {{.LoginURL}}
{{if .SupportURL}}
Questions? {{.SupportURL}}{{end}}
`)),
		html: htmpl.Must(htmpl.New("welcome.html").Parse(`<p>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</p>
<p>Your {{.CompanyName}} account for <strong>{{.Email}}</strong> is ready.</p>
<p><a href="{{.LoginURL}}">Sign in</a></p>
{{if .SupportURL}}<p>Questions? <a href="{{.SupportURL}}">Contact support</a></p>{{end}}`)),
	},
}

// Render returns subject, text and html bodies for a named template.
func Render(name string, data map[string]any) (string, string, string, error) {
	p, ok := registry[strings.ToLower(name)]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	subj, err := texttpl.New("subject").Parse(p.subject)
	if err != nil {
		return "", "", "", err
	}
	var s, t, h bytes.Buffer
	if err := subj.Execute(&s, data); err != nil {
		return "", "", "", err
	}
	if err := p.text.Execute(&t, data); err != nil {
		return "", "", "", err
	}
	if err := p.html.Execute(&h, data); err != nil {
		return "", "", "", err
	}
	return s.String(), t.String(), h.String(), nil
}
