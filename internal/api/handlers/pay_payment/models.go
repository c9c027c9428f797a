package pay_payment

import "time"

// MarkPaidRequest HTTP запрос подтверждения оплаты
type MarkPaidRequest struct {
	TransactionID string     `json:"transactionId" validate:"required,max=128"`
	PaidDate      *time.Time `json:"paidDate,omitempty"` // RFC 3339, по умолчанию текущее время
}
