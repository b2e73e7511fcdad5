package email

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"
)

var templates = map[string]string{
	"verifyEmail.tmpl": "Subject: Dein Login-Code\r\n\r\nDein Code: {{.Code}}\r\nDer Code ist eine Stunde gültig.\r\n",
}

type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send renders the named template with data and delivers it to the recipient.
func (m *Mailer) Send(to string, data map[string]interface{}, tmplName string) error {
	raw, ok := templates[tmplName]
	if !ok {
		return fmt.Errorf("unknown email template %q", tmplName)
	}

	tmpl, err := template.New(tmplName).Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering email template: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, body.Bytes())
}
