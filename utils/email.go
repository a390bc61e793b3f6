package utils

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"restaurant/models"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends stock alerts to the kitchen manager.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewMailer(cfg SMTPConfig, to string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     to,
	}
}

func (m *Mailer) SendEmail(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

func StockAlertBody(item models.InventoryItem) (string, string) {
	subject := fmt.Sprintf("Stock alert: %s is %s", item.Name, item.Status)
	body := fmt.Sprintf("%s is down to %g %s (minimum %g).\nStatus: %s\n",
		item.Name, item.Current, item.Unit, item.Minimum, item.Status)
	return subject, body
}

func (m *Mailer) StockAlert(_ context.Context, item models.InventoryItem) error {
	subject, body := StockAlertBody(item)
	return m.SendEmail(subject, body)
}
