package domain

import "github.com/shopspring/decimal"

// ResolvedRules is what the rule evaluator extracts from the rules in scope
type ResolvedRules struct {
	DepositAmount  *decimal.Decimal
	RequiredMonths Months // nil = no REQUIRE_PAYMENT_MONTHS rule
	MinPeriod      *int
	MaxPeriod      *int
	CustomRules    []BookingRule

	// ids of every rule that matched, ascending
	MatchedRuleIDs []int64
}

// MonthlyLineItem is a single month of a monthly tariff
type MonthlyLineItem struct {
	Month  int
	Label  string
	Amount decimal.Decimal
}

// PriceQuote is the computed price of a prospective booking
type PriceQuote struct {
	BasePrice        decimal.Decimal
	DepositAmount    decimal.Decimal
	TotalPrice       decimal.Decimal
	MonthlyBreakdown []MonthlyLineItem
	AppliedRuleIDs   []int64
	Priceable        bool
}

// ChargeableMonths returns the months of the breakdown in order
func (q *PriceQuote) ChargeableMonths() Months {
	months := make(Months, 0, len(q.MonthlyBreakdown))
	for _, item := range q.MonthlyBreakdown {
		months = append(months, item.Month)
	}
	return months
}
