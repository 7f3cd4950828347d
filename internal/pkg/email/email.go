package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/marcyannick1/roomly-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService sends transactional mail for visit transitions. Delivery is
// best effort: failures are logged by callers, never propagated to the
// transition that triggered them.
type EmailService interface {
	SendVisitAccepted(to, accepterName, listingTitle, visitDate string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
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
	}, nil
}

type visitAcceptedEmailData struct {
	AccepterName string
	ListingTitle string
	VisitDate    string
}

// SendVisitAccepted notifies the proposer that their visit proposal was accepted.
func (s *emailServiceImpl) SendVisitAccepted(to, accepterName, listingTitle, visitDate string) error {
	data := visitAcceptedEmailData{
		AccepterName: accepterName,
		ListingTitle: listingTitle,
		VisitDate:    visitDate,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "visit_accepted.html", data); err != nil {
		return fmt.Errorf("failed to render visit accepted email: %w", err)
	}

	subject := "Votre visite a été confirmée"
	return s.send(to, subject, body.Bytes())
}

func (s *emailServiceImpl) send(to, subject string, htmlBody []byte) error {
	msg := bytes.Buffer{}
	msg.WriteString("From: " + s.cfg.From + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg.Bytes())
		if err == nil {
			return nil
		}
		slog.Warn("Email send failed", "to", to, "attempt", attempt, "error", err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, err)
}
