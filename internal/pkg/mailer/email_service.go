// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"html"

	"notefiber-todo/internal/constant"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, name string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

// NewEmailService returns a no-op sender when host is empty.
func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	if host == "" {
		return noopEmailService{}
	}
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) SendWelcome(toEmail, name string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to your todo list")
	m.SetBody("text/html", welcomeBody(name))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome mail to %s: %w", toEmail, err)
	}
	return nil
}

func welcomeBody(name string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome, %s!</h2>
			<p>Your account is ready and a first notebook, <b>%s</b>, is waiting for you.</p>
			<p>Add a task to get started.</p>
		</div>
	`, html.EscapeString(name), constant.DefaultNotebookName)
}

type noopEmailService struct{}

func (noopEmailService) SendWelcome(string, string) error { return nil }
