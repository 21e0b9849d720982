package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

// MailService sends templated mail through the SMTP relay configured in
// the environment (SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD,
// SMTP_FROM). Callers fire it from goroutines; failures are logged.
type MailService struct{}

func NewMailService() *MailService {
	return &MailService{}
}

var mailTemplates = map[string]string{
	"forgot_password": "Hi {{firstName}},\n\nUse the link below to reset your password. It expires in 10 minutes.\n\n{{resetLink}}\n\nIf you did not request this, ignore this email.",
	"booking_decided": "Hi {{firstName}},\n\nYour booking for {{propertyTitle}} was {{decision}}.\n\n{{responseMessage}}",
	"kyc_reviewed":    "Hi {{firstName}},\n\nYour identity verification was {{decision}}.\n\n{{reviewNotes}}",
}

// Send renders the named template with params and delivers it.
func (ms *MailService) Send(recipient, subject, template string, params map[string]string) error {
	body, ok := mailTemplates[template]
	if !ok {
		return fmt.Errorf("unknown mail template %q", template)
	}
	for key, value := range params {
		body = strings.ReplaceAll(body, "{{"+key+"}}", value)
	}

	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")
	if host == "" || from == "" {
		log.Printf("SMTP not configured, dropping mail %q to %s", subject, recipient)
		return nil
	}
	if port == "" {
		port = "587"
	}

	msg := []byte("From: " + from + "\r\n" +
		"To: " + recipient + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}

	if err := smtp.SendMail(host+":"+port, auth, from, []string{recipient}, msg); err != nil {
		log.Printf("mail send failed to %s: %v", recipient, err)
		return err
	}
	return nil
}
