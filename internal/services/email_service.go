package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"taskboard/internal/models"
)

type EmailService interface {
	SendWelcomeEmail(email, username string) error
	SendTaskReminder(email string, task *models.Task) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, username string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to Taskboard!")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your account has been created. Add your first task and start checking things off.</p>
		<p>— Taskboard</p>
	`, html.EscapeString(username))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendTaskReminder(email string, task *models.Task) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Task Reminder")

	due := ""
	if task.DueDate != nil {
		due = task.DueDate.Format("2006-01-02")
	}
	body := fmt.Sprintf(`
		<h3>Task due soon</h3>
		<p><strong>%s</strong> is due %s.</p>
	`, html.EscapeString(task.Text), due)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	return nil
}
