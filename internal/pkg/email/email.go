package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	// SendMissingAttendanceEmployee reminds an employee to log a missed day
	SendMissingAttendanceEmployee(to, employeeName string, date time.Time) error
	// SendMissingAttendanceManager tells a manager one of their reports logged nothing
	SendMissingAttendanceManager(to, managerName, employeeName string, date time.Time) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
	}, nil
}

type missingAttendanceEmailData struct {
	EmployeeName string
	ManagerName  string
	Date         string
}

// SendMissingAttendanceEmployee sends the daily missing attendance reminder to the employee
func (s *emailServiceImpl) SendMissingAttendanceEmployee(to, employeeName string, date time.Time) error {
	data := missingAttendanceEmailData{
		EmployeeName: employeeName,
		Date:         date.Format("Monday, 02 January 2006"),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "missing_attendance_employee.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Missing attendance on %s", date.Format(time.DateOnly)), body.String())
}

// SendMissingAttendanceManager sends the daily missing attendance notice to the employee's manager
func (s *emailServiceImpl) SendMissingAttendanceManager(to, managerName, employeeName string, date time.Time) error {
	data := missingAttendanceEmailData{
		EmployeeName: employeeName,
		ManagerName:  managerName,
		Date:         date.Format("Monday, 02 January 2006"),
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "missing_attendance_manager.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("%s has no attendance on %s", employeeName, date.Format(time.DateOnly)), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if !s.cfg.Enabled || s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}
	if to == "" {
		slog.Warn("Email recipient missing, skipping email send", "subject", subject)
		return nil
	}

	from := s.cfg.FromEmail

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
