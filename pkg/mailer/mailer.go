// Package mailer delivers PDF rent receipts over SMTP. Failures never escape
// the service boundary: every outcome is a Result the UI can show verbatim.
package mailer

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gomail "gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ConfigFromEnv reads SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS and SMTP_FROM.
func ConfigFromEnv() Config {
	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	cfg := Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     os.Getenv("SMTP_FROM"),
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return cfg
}

// Result is the success flag + human readable message pair returned to the
// operator. Nothing is retried automatically.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type Mailer struct {
	cfg  Config
	send func(*gomail.Message) error
}

func New(cfg Config) *Mailer {
	m := &Mailer{cfg: cfg}
	m.send = func(msg *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return d.DialAndSend(msg)
	}
	return m
}

// SendReceipt mails the receipt at pdfPath to the tenant.
func (m *Mailer) SendReceipt(to, name, pdfPath string, date time.Time, amount float64) Result {
	if m.cfg.Host == "" || m.cfg.Username == "" {
		return Result{Message: "email is not configured"}
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return Result{Message: "receipt attachment is missing"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetAddressHeader("To", to, name)
	msg.SetHeader("Subject", fmt.Sprintf("Recibo de pago — %s", date.Format("2006-01-02")))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\nAdjuntamos el recibo de su pago de %.2f € con fecha %s.\n\nGracias.\n",
		name, amount, date.Format("2006-01-02")))
	msg.Attach(pdfPath)

	if err := m.send(msg); err != nil {
		return Result{Message: classify(err)}
	}
	return Result{OK: true, Message: fmt.Sprintf("receipt sent to %s", to)}
}

func classify(err error) string {
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "535") || strings.Contains(s, "auth"):
		return "SMTP authentication failed"
	case strings.Contains(s, "connection refused") || strings.Contains(s, "no such host") ||
		strings.Contains(s, "timeout") || strings.Contains(s, "dial"):
		return "could not connect to SMTP server"
	default:
		return fmt.Sprintf("SMTP error: %v", err)
	}
}
