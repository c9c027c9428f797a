package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the status of a scheduled payment
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentKind tells which line of the quote the payment settles
type PaymentKind string

const (
	PaymentKindInstallment PaymentKind = "installment"
	PaymentKindSeason      PaymentKind = "season"
	PaymentKindDeposit     PaymentKind = "deposit"
)

// paymentTransitions PENDING → PAID, PENDING → OVERDUE → PAID, PENDING|OVERDUE|PAID → REFUNDED
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentOverdue, PaymentRefunded},
	PaymentOverdue: {PaymentPaid, PaymentRefunded},
	PaymentPaid:    {PaymentRefunded},
}

// IsValid reports whether the status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows s → next
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsOutstanding returns true while the payment still has to be paid
func (s PaymentStatus) IsOutstanding() bool {
	return s == PaymentPending || s == PaymentOverdue
}

// Payment is a scheduled payment of a booking.
// Penalty is non-zero only while OVERDUE; SettledPenalty keeps the amount frozen at payment time.
type Payment struct {
	ID             int64
	BookingID      int64
	PayerID        int64
	Kind           PaymentKind
	Month          *int // month of a monthly installment
	Amount         decimal.Decimal
	Status         PaymentStatus
	Required       bool // gates booking confirmation
	DueDate        time.Time
	Penalty        decimal.Decimal
	SettledPenalty decimal.Decimal
	TransactionID  *string
	PaidDate       *time.Time
	RefundedAt     *time.Time
	Version        int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaysOverdue counts whole calendar days between the due date and now.
// Zero if now is on or before the due date.
func (p *Payment) DaysOverdue(now time.Time) int {
	due := calendarDate(p.DueDate)
	today := calendarDate(now.In(p.DueDate.Location()))
	if !today.After(due) {
		return 0
	}
	return int(today.Sub(due).Hours() / 24)
}

// IsPastDue returns true when the current date is after the due date
func (p *Payment) IsPastDue(now time.Time) bool {
	return p.DaysOverdue(now) > 0
}

// PenaltyAt is amount × dailyRate × daysOverdue as of now, rounded to kopecks
func (p *Payment) PenaltyAt(now time.Time, dailyRate decimal.Decimal) decimal.Decimal {
	days := p.DaysOverdue(now)
	if days == 0 {
		return decimal.Zero
	}
	return p.Amount.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))).RoundBank(2)
}

// AmountDue is the amount plus any accrued penalty
func (p *Payment) AmountDue() decimal.Decimal {
	return p.Amount.Add(p.Penalty)
}

// calendarDate drops the time of day; UTC keeps day arithmetic free of DST shifts
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AreRequiredPaymentsPaid is true iff every payment flagged as required is PAID
func AreRequiredPaymentsPaid(payments []*Payment) bool {
	for _, p := range payments {
		if p.Required && p.Status != PaymentPaid {
			return false
		}
	}
	return true
}
