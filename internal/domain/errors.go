package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRuleConfiguration is the sentinel wrapped by RuleConfigurationError
	ErrRuleConfiguration = errors.New("domain: rule parameters do not match rule type")

	// ErrPriceableOnlyWhenMonthsNonEmpty is returned when a monthly tariff resolves to zero chargeable months
	ErrPriceableOnlyWhenMonthsNonEmpty = errors.New("domain: tariff has no chargeable months")

	// ErrBookingPeriodOutOfRange is returned when the requested duration violates min/max period
	ErrBookingPeriodOutOfRange = errors.New("domain: booking period out of range")

	// ErrBerthAlreadyBooked is returned when the berth already has a live booking
	ErrBerthAlreadyBooked = errors.New("domain: berth already booked")

	// ErrMissingTariffSelection is returned when a priced berth is booked without a tariff
	ErrMissingTariffSelection = errors.New("domain: tariff selection is required for this berth")

	// ErrInvalidTransition is returned when a state machine transition is not allowed
	ErrInvalidTransition = errors.New("domain: invalid status transition")
)

// RuleConfigurationError names the booking rule whose parameters are malformed
type RuleConfigurationError struct {
	RuleID   int64
	RuleType RuleType
	Reason   string
}

func (e *RuleConfigurationError) Error() string {
	return fmt.Sprintf("rule %d (%s): %s", e.RuleID, e.RuleType, e.Reason)
}

func (e *RuleConfigurationError) Unwrap() error {
	return ErrRuleConfiguration
}
