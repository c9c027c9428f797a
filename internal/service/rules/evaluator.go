package rules

import (
	"sort"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

// ResolveRules выбирает правила, действующие для пары клуб/тариф, и извлекает их параметры
//
// В выборку попадают правила клуба без тарифа и правила выбранного тарифа.
// Правила обрабатываются по возрастанию id:
// - REQUIRE_DEPOSIT, MIN_BOOKING_PERIOD, MAX_BOOKING_PERIOD: побеждает правило с наименьшим id
// - REQUIRE_PAYMENT_MONTHS: месяцы всех правил пересекаются (каждое только сужает набор)
// - CUSTOM: собираются в CustomRules
//
// tariff может быть nil (причал без тарифов) - тогда действуют только общие правила клуба.
func ResolveRules(club *domain.Club, tariff *domain.Tariff, rules []domain.BookingRule) (*domain.ResolvedRules, error) {
	var tariffID *int64
	if tariff != nil {
		tariffID = &tariff.ID
	}

	matched := make([]domain.BookingRule, 0, len(rules))
	for _, rule := range rules {
		if rule.AppliesTo(club.ID, tariffID) {
			matched = append(matched, rule)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	resolved := &domain.ResolvedRules{
		CustomRules:    []domain.BookingRule{},
		MatchedRuleIDs: make([]int64, 0, len(matched)),
	}

	for _, rule := range matched {
		if rule.Params == nil || rule.Params.RuleType() != rule.Type {
			return nil, &domain.RuleConfigurationError{
				RuleID:   rule.ID,
				RuleType: rule.Type,
				Reason:   "parameters do not match rule type",
			}
		}

		switch params := rule.Params.(type) {
		case domain.RequirePaymentMonthsParams:
			if resolved.RequiredMonths == nil {
				resolved.RequiredMonths = params.Months.Sorted()
				if resolved.RequiredMonths == nil {
					resolved.RequiredMonths = domain.Months{}
				}
			} else {
				resolved.RequiredMonths = resolved.RequiredMonths.Intersect(params.Months)
			}

		case domain.MinBookingPeriodParams:
			if resolved.MinPeriod == nil {
				minPeriod := params.MinPeriod
				resolved.MinPeriod = &minPeriod
			}

		case domain.MaxBookingPeriodParams:
			if resolved.MaxPeriod == nil {
				maxPeriod := params.MaxPeriod
				resolved.MaxPeriod = &maxPeriod
			}

		case domain.RequireDepositParams:
			if resolved.DepositAmount == nil {
				deposit := params.DepositAmount
				resolved.DepositAmount = &deposit
			}

		case domain.CustomParams:
			resolved.CustomRules = append(resolved.CustomRules, rule)

		default:
			return nil, &domain.RuleConfigurationError{
				RuleID:   rule.ID,
				RuleType: rule.Type,
				Reason:   "unsupported parameters",
			}
		}

		resolved.MatchedRuleIDs = append(resolved.MatchedRuleIDs, rule.ID)
	}

	return resolved, nil
}
