package main

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"time"

	"github.com/go-mail/mail/v2"

	"github.com/premkumarpatil-1304/primetradeai-assesment/internal/data"
)

//go:embed templates
var templateFS embed.FS

type mailer struct {
	dailer *mail.Dialer
	sender string
}

func newMailer(host string, port int, username string, password string, sender string) *mailer {
	dailer := mail.NewDialer(host, port, username, password)
	dailer.Timeout = 5 * time.Second
	return &mailer{
		dailer: dailer,
		sender: sender,
	}
}

// compose renders the subject, plainBody and htmlBody blocks of templateFile.
func (m *mailer) compose(to string, templateFile string, data any) (*mail.Message, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return nil, err
	}
	var subject bytes.Buffer
	err = tmpl.ExecuteTemplate(&subject, "subject", data)
	if err != nil {
		return nil, err
	}
	var plainBody bytes.Buffer
	err = tmpl.ExecuteTemplate(&plainBody, "plainBody", data)
	if err != nil {
		return nil, err
	}
	var htmlBody bytes.Buffer
	err = tmpl.ExecuteTemplate(&htmlBody, "htmlBody", data)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject.String())
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())
	return msg, nil
}

func (m *mailer) send(to string, templateFile string, data any) error {
	msg, err := m.compose(to, templateFile, data)
	if err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		err = m.dailer.DialAndSend(msg)
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	return err
}

// background runs fn on its own goroutine, tracked by app.wg, and logs
// instead of crashing on panic.
func (app *application) background(fn func()) {
	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		defer func() {
			if err := recover(); err != nil {
				log.Println(err)
			}
		}()
		fn()
	}()
}

// sendRegistrationNotice mails a welcome message when SMTP is configured.
func (app *application) sendRegistrationNotice(u *data.User) {
	if app.mailer == nil {
		return
	}
	recipient := u.Email
	payload := map[string]string{"Email": u.Email, "Role": string(u.Role)}
	app.background(func() {
		if err := app.mailer.send(recipient, "user_welcome.tmpl", payload); err != nil {
			log.Printf("send registration notice: %v", err)
		}
	})
}
