package domain

import "time"

// Ticket is the scannable artifact issued once per registration after a
// successful payment.
type Ticket struct {
	ID             string
	RegistrationID string
	Serial         string // encoded into the QR image, checked at the door
	QRImage        []byte // PNG
	IssuedAt       time.Time
}
