package events

import (
	"time"

	"github.com/google/uuid"
)

// Type тип доменного события
type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingConfirmed     Type = "booking.confirmed"
	BookingCancelled     Type = "booking.cancelled"
	BookingStatusChanged Type = "booking.status_changed"
	PaymentPaid          Type = "payment.paid"
	PaymentOverdue       Type = "payment.overdue"
	PaymentRefunded      Type = "payment.refunded"
)

// Event доменное событие движка бронирования
// Key определяет партицию: события одного бронирования идут по порядку
type Event struct {
	ID         string      `json:"id"`
	Type       Type        `json:"type"`
	Key        string      `json:"-"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

// NewEvent создает событие с новым идентификатором
func NewEvent(eventType Type, key string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// BookingPayload данные событий бронирования
type BookingPayload struct {
	BookingID int64  `json:"bookingId"`
	ClubID    int64  `json:"clubId"`
	BerthID   int64  `json:"berthId"`
	OwnerID   int64  `json:"ownerId"`
	Status    string `json:"status"`
	// Сумма в виде строки, чтобы не терять копейки
	TotalPrice string `json:"totalPrice,omitempty"`
}

// PaymentPayload данные событий платежа
type PaymentPayload struct {
	PaymentID     int64   `json:"paymentId"`
	BookingID     int64   `json:"bookingId"`
	Status        string  `json:"status"`
	Amount        string  `json:"amount"`
	Penalty       string  `json:"penalty"`
	TransactionID *string `json:"transactionId,omitempty"`
}
