package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/pkg/ptr"
)

// SchedulePolicy параметры графика платежей, задаваемые оператором
type SchedulePolicy struct {
	// Через сколько дней от создания бронирования наступает срок оплаты
	DueDays int
	// Должен ли залог быть оплачен для подтверждения бронирования
	DepositRequired bool
}

// BuildSchedule формирует платежи бронирования по котировке
//
//   - помесячный тариф: платеж на каждую строку разбивки со сроком 1-го числа месяца
//     сезона клуба, но не раньше now + DueDays
//   - сезонный тариф (или базовая цена клуба): один платеж SEASON со сроком now + DueDays
//   - залог > 0: отдельный платеж DEPOSIT со сроком now + DueDays
//
// Платежи с нулевой суммой не создаются.
func BuildSchedule(booking *domain.Booking, club *domain.Club, quote *domain.PriceQuote, now time.Time, policy SchedulePolicy) []*domain.Payment {
	earliestDue := calendarDate(now).AddDate(0, 0, policy.DueDays)
	payments := make([]*domain.Payment, 0, len(quote.MonthlyBreakdown)+2)

	if len(quote.MonthlyBreakdown) > 0 {
		for _, item := range quote.MonthlyBreakdown {
			if !item.Amount.IsPositive() {
				continue
			}
			due := time.Date(club.Season, time.Month(item.Month), 1, 0, 0, 0, 0, time.UTC)
			if due.Before(earliestDue) {
				due = earliestDue
			}
			p := newPayment(booking, domain.PaymentKindInstallment, item.Amount, due, true)
			p.Month = ptr.Ptr(item.Month)
			payments = append(payments, p)
		}
	} else if quote.BasePrice.IsPositive() {
		payments = append(payments, newPayment(booking, domain.PaymentKindSeason, quote.BasePrice, earliestDue, true))
	}

	if quote.DepositAmount.IsPositive() {
		payments = append(payments, newPayment(booking, domain.PaymentKindDeposit, quote.DepositAmount, earliestDue, policy.DepositRequired))
	}

	return payments
}

func newPayment(booking *domain.Booking, kind domain.PaymentKind, amount decimal.Decimal, due time.Time, required bool) *domain.Payment {
	return &domain.Payment{
		BookingID:      booking.ID,
		PayerID:        booking.OwnerID,
		Kind:           kind,
		Amount:         amount,
		Status:         domain.PaymentPending,
		Required:       required,
		DueDate:        due,
		Penalty:        decimal.Zero,
		SettledPenalty: decimal.Zero,
	}
}
