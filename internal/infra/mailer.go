package infra

import (
	"fmt"
	"net/smtp"
	"time"

	"cantine/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending notification emails.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	addr     string
}

// NewMailer returns nil when no SMTP host is configured; callers treat a nil
// mailer as notifications disabled.
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendOrderReady notifies an employee that their meal is ready for pickup.
// Called synchronously inside the status-change request; failures are the
// caller's to log, never to propagate.
func (m *Mailer) SendOrderReady(to, firstName, dishName string, menuDate time.Time) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your order is ready: %s", dishName)
	e.Text = []byte(fmt.Sprintf(
		"Hello %s,\n\nYour order %q for %s is ready for pickup at the cafeteria.\n",
		firstName, dishName, menuDate.Format("Monday 02 Jan 2006")))

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
