package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RuleType identifies a booking rule variant
type RuleType string

const (
	RuleRequirePaymentMonths RuleType = "require_payment_months"
	RuleMinBookingPeriod     RuleType = "min_booking_period"
	RuleMaxBookingPeriod     RuleType = "max_booking_period"
	RuleRequireDeposit       RuleType = "require_deposit"
	RuleCustom               RuleType = "custom"
)

// IsValid reports whether the rule type is known
func (t RuleType) IsValid() bool {
	switch t {
	case RuleRequirePaymentMonths, RuleMinBookingPeriod, RuleMaxBookingPeriod, RuleRequireDeposit, RuleCustom:
		return true
	}
	return false
}

// BookingRule is a policy override scoped to a club or to a single tariff of the club.
// Scope resolution mirrors hierarchical config: a tariff-scoped rule applies only to
// bookings priced under that tariff, a club-wide rule (TariffID == nil) to all of them.
type BookingRule struct {
	ID          int64
	ClubID      int64
	TariffID    *int64 // NULL = rule for all tariffs of the club
	Type        RuleType
	Params      RuleParams
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsClubWide returns true if the rule is not bound to a tariff
func (r *BookingRule) IsClubWide() bool {
	return r.TariffID == nil
}

// AppliesTo returns true if the rule is in scope for the club/tariff pair
func (r *BookingRule) AppliesTo(clubID int64, tariffID *int64) bool {
	if r.ClubID != clubID {
		return false
	}
	if r.TariffID == nil {
		return true
	}
	return tariffID != nil && *r.TariffID == *tariffID
}

// RuleParams is the tagged union of rule parameters, one struct per RuleType
type RuleParams interface {
	RuleType() RuleType
}

// RequirePaymentMonthsParams restricts chargeable months
type RequirePaymentMonthsParams struct {
	Months Months `json:"months"`
}

// MinBookingPeriodParams is a lower bound for the booking duration in days
type MinBookingPeriodParams struct {
	MinPeriod int `json:"minPeriod"`
}

// MaxBookingPeriodParams is an upper bound for the booking duration in days
type MaxBookingPeriodParams struct {
	MaxPeriod int `json:"maxPeriod"`
}

// RequireDepositParams adds a deposit to the price
type RequireDepositParams struct {
	DepositAmount decimal.Decimal `json:"depositAmount"`
}

// CustomParams is free-form; it never affects the price but is listed in applied rules
type CustomParams struct {
	Raw json.RawMessage `json:"-"`
}

func (RequirePaymentMonthsParams) RuleType() RuleType { return RuleRequirePaymentMonths }
func (MinBookingPeriodParams) RuleType() RuleType     { return RuleMinBookingPeriod }
func (MaxBookingPeriodParams) RuleType() RuleType     { return RuleMaxBookingPeriod }
func (RequireDepositParams) RuleType() RuleType       { return RuleRequireDeposit }
func (CustomParams) RuleType() RuleType               { return RuleCustom }

// DecodeRuleParams decodes stored JSON into the variant implied by ruleType.
// Any shape mismatch is reported as *RuleConfigurationError naming ruleID.
func DecodeRuleParams(ruleID int64, ruleType RuleType, raw []byte) (RuleParams, error) {
	fail := func(reason string, args ...interface{}) (RuleParams, error) {
		return nil, &RuleConfigurationError{RuleID: ruleID, RuleType: ruleType, Reason: fmt.Sprintf(reason, args...)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return fail("parameters are empty")
	}

	switch ruleType {
	case RuleRequirePaymentMonths:
		var p struct {
			Months *Months `json:"months"`
		}
		if err := decodeStrict(raw, &p); err != nil {
			return fail("%v", err)
		}
		if p.Months == nil {
			return fail("months is required")
		}
		if err := p.Months.Validate(); err != nil {
			return fail("%v", err)
		}
		return RequirePaymentMonthsParams{Months: p.Months.Sorted()}, nil

	case RuleMinBookingPeriod:
		var p struct {
			MinPeriod *int `json:"minPeriod"`
		}
		if err := decodeStrict(raw, &p); err != nil {
			return fail("%v", err)
		}
		if p.MinPeriod == nil || *p.MinPeriod <= 0 {
			return fail("minPeriod must be a positive number of days")
		}
		return MinBookingPeriodParams{MinPeriod: *p.MinPeriod}, nil

	case RuleMaxBookingPeriod:
		var p struct {
			MaxPeriod *int `json:"maxPeriod"`
		}
		if err := decodeStrict(raw, &p); err != nil {
			return fail("%v", err)
		}
		if p.MaxPeriod == nil || *p.MaxPeriod <= 0 {
			return fail("maxPeriod must be a positive number of days")
		}
		return MaxBookingPeriodParams{MaxPeriod: *p.MaxPeriod}, nil

	case RuleRequireDeposit:
		var p struct {
			DepositAmount *decimal.Decimal `json:"depositAmount"`
		}
		if err := decodeStrict(raw, &p); err != nil {
			return fail("%v", err)
		}
		if p.DepositAmount == nil {
			return fail("depositAmount is required")
		}
		if p.DepositAmount.IsNegative() {
			return fail("depositAmount must not be negative")
		}
		return RequireDepositParams{DepositAmount: *p.DepositAmount}, nil

	case RuleCustom:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fail("custom parameters must be a JSON object: %v", err)
		}
		return CustomParams{Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	return fail("unknown rule type %q", ruleType)
}

// EncodeRuleParams serializes params for storage
func EncodeRuleParams(params RuleParams) ([]byte, error) {
	if custom, ok := params.(CustomParams); ok {
		if len(custom.Raw) == 0 {
			return []byte("{}"), nil
		}
		return custom.Raw, nil
	}
	return json.Marshal(params)
}

func decodeStrict(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
