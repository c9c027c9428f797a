package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

// Request модели

// MarkPaidRequest подтверждение оплаты от платежного шлюза
type MarkPaidRequest struct {
	UserID        int64
	PaymentID     int64
	TransactionID string
	PaidDate      *time.Time // по умолчанию текущее время
}

// MarkRefundedRequest возврат платежа
type MarkRefundedRequest struct {
	UserID    int64
	PaymentID int64
}

// Response модели

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID             int64           `json:"id"`
	BookingID      int64           `json:"bookingId"`
	PayerID        int64           `json:"payerId"`
	Kind           string          `json:"kind"`
	Month          *int            `json:"month,omitempty"`
	MonthLabel     *string         `json:"monthLabel,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	Required       bool            `json:"required"`
	DueDate        string          `json:"dueDate"` // "2025-06-01"
	Penalty        decimal.Decimal `json:"penalty"`
	SettledPenalty decimal.Decimal `json:"settledPenalty"`
	AmountDue      decimal.Decimal `json:"amountDue"`
	TransactionID  *string         `json:"transactionId,omitempty"`
	PaidDate       *time.Time      `json:"paidDate,omitempty"`
	RefundedAt     *time.Time      `json:"refundedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaymentListResponse ответ со списком платежей
type PaymentListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// Методы конвертации

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}

	resp := &PaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		PayerID:        p.PayerID,
		Kind:           string(p.Kind),
		Month:          p.Month,
		Amount:         p.Amount,
		Status:         string(p.Status),
		Required:       p.Required,
		DueDate:        p.DueDate.Format(domain.DateFormat),
		Penalty:        p.Penalty,
		SettledPenalty: p.SettledPenalty,
		AmountDue:      p.AmountDue(),
		TransactionID:  p.TransactionID,
		PaidDate:       p.PaidDate,
		RefundedAt:     p.RefundedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	if p.Month != nil {
		label := domain.MonthLabel(*p.Month)
		resp.MonthLabel = &label
	}

	return resp
}

// FromDomainPaymentList конвертирует список domain моделей в DTO
func FromDomainPaymentList(payments []*domain.Payment) *PaymentListResponse {
	resp := &PaymentListResponse{
		Payments: make([]PaymentResponse, 0, len(payments)),
	}

	for _, payment := range payments {
		if paymentResp := FromDomainPayment(payment); paymentResp != nil {
			resp.Payments = append(resp.Payments, *paymentResp)
		}
	}

	return resp
}
