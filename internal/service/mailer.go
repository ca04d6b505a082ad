package service

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"eventpay/internal/config"
	"eventpay/internal/domain"
)

// Mailer sends the payment confirmation message.
type Mailer interface {
	SendPaymentConfirmation(reg *domain.Registration, ticket *domain.Ticket, order *domain.Order) error
}

// SMTPMailer delivers confirmation mail over SMTP.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendPaymentConfirmation mails the registrant their ticket with the QR image
// attached.
func (m *SMTPMailer) SendPaymentConfirmation(reg *domain.Registration, ticket *domain.Ticket, order *domain.Order) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromEmail)
	msg.SetHeader("To", reg.Email)
	msg.SetHeader("Subject", "Your ticket is confirmed")
	msg.SetBody("text/html", confirmationBody(reg, ticket, order))

	if ticket != nil && len(ticket.QRImage) > 0 {
		msg.Attach("ticket.png", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(ticket.QRImage)
			return err
		}))
	}

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)

	return d.DialAndSend(msg)
}

func confirmationBody(reg *domain.Registration, ticket *domain.Ticket, order *domain.Order) string {
	serial := ""
	if ticket != nil {
		serial = ticket.Serial
	}
	return fmt.Sprintf(`<p>Hi %s,</p>
<p>Your payment of %s %s was received and your ticket is now active.</p>
<p>Ticket serial: <strong>%s</strong><br>Payment reference: %s</p>
<p>The attached QR code will be scanned at the entrance.</p>`,
		reg.Name, order.Amount.StringFixed(2), order.Currency, serial, order.OrderID)
}
