package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/pkg/money"
)

// ComputePrice рассчитывает стоимость бронирования причала
//
// Функция чистая: не читает часы и не ходит в хранилище, поэтому одинаковые
// входные данные всегда дают одинаковую котировку.
//
//   - SEASON_PAYMENT: базовая цена = сумма тарифа за сезон
//   - MONTHLY_PAYMENT: месяцы = месяцы клуба ∩ месяцы тарифа ∩ обязательные месяцы правил,
//     по строке на месяц с фиксированной ставкой тарифа
//   - tariff == nil (у причала нет тарифов): базовая цена клуба как сумма за сезон
//
// Пустой набор месяцев не даёт нулевую цену молча: котировка помечается Priceable = false.
func ComputePrice(club *domain.Club, berth *domain.Berth, tariff *domain.Tariff, resolved *domain.ResolvedRules) *domain.PriceQuote {
	if resolved == nil {
		resolved = &domain.ResolvedRules{}
	}

	quote := &domain.PriceQuote{
		BasePrice:        decimal.Zero,
		DepositAmount:    decimal.Zero,
		MonthlyBreakdown: []domain.MonthlyLineItem{},
		AppliedRuleIDs:   appliedRuleIDs(resolved),
		Priceable:        true,
	}

	switch {
	case tariff == nil:
		quote.BasePrice = money.Round(club.BasePrice)

	case tariff.IsMonthly():
		months := chargeableMonths(club, tariff, resolved)
		rate := money.Round(tariff.Amount)
		lines := make([]decimal.Decimal, 0, len(months))
		for _, month := range months {
			quote.MonthlyBreakdown = append(quote.MonthlyBreakdown, domain.MonthlyLineItem{
				Month:  month,
				Label:  domain.MonthLabel(month),
				Amount: rate,
			})
			lines = append(lines, rate)
		}
		quote.BasePrice = money.Sum(lines...)
		quote.Priceable = len(months) > 0

	default:
		quote.BasePrice = money.Round(tariff.Amount)
	}

	if resolved.DepositAmount != nil {
		quote.DepositAmount = money.Round(*resolved.DepositAmount)
	}
	quote.TotalPrice = quote.BasePrice.Add(quote.DepositAmount)

	return quote
}

// chargeableMonths club ∩ tariff ∩ required, по возрастанию
func chargeableMonths(club *domain.Club, tariff *domain.Tariff, resolved *domain.ResolvedRules) domain.Months {
	candidates := tariff.Months.Sorted()
	if candidates == nil {
		candidates = domain.Months{}
	}
	if club.RentalMonths != nil {
		candidates = candidates.Intersect(club.RentalMonths)
	}
	if resolved.RequiredMonths != nil {
		candidates = candidates.Intersect(resolved.RequiredMonths)
	}
	return candidates
}

// appliedRuleIDs все сработавшие правила, включая MIN/MAX_BOOKING_PERIOD, по возрастанию id
func appliedRuleIDs(resolved *domain.ResolvedRules) []int64 {
	ids := make([]int64, len(resolved.MatchedRuleIDs))
	copy(ids, resolved.MatchedRuleIDs)
	return ids
}
