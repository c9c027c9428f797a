package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Club is a read-only snapshot of a yacht club owned by the club CRUD module
type Club struct {
	ID               int64
	OwnerID          int64
	Name             string
	RentalMonths     Months // nil = navigation season is not restricted
	Season           int    // calendar year the configuration applies to
	MinRentalPeriod  *int   // days
	MaxRentalPeriod  *int   // days
	BasePrice        decimal.Decimal
	MinPricePerMonth decimal.Decimal
}

// IsManagedBy returns true if the user owns the club
func (c *Club) IsManagedBy(userID int64) bool {
	return c.OwnerID == userID
}

// Berth is a single mooring slot within a club
type Berth struct {
	ID          int64
	ClubID      int64
	Name        string
	IsAvailable bool // administrative flag, independent of live bookings
	Length      decimal.Decimal
	Width       decimal.Decimal
	TariffIDs   []int64 // TariffBerth links
}

// HasTariffs returns true if the berth is linked to at least one tariff
func (b *Berth) HasTariffs() bool {
	return len(b.TariffIDs) > 0
}

// HasTariff returns true if the tariff is linked to the berth
func (b *Berth) HasTariff(tariffID int64) bool {
	for _, id := range b.TariffIDs {
		if id == tariffID {
			return true
		}
	}
	return false
}

// Vessel is a read-only snapshot of a vessel, used only for ownership checks
type Vessel struct {
	ID      int64
	OwnerID int64
	Name    string
	Length  decimal.Decimal
	Width   decimal.Decimal
}

// TariffType defines how a tariff amount is charged
type TariffType string

const (
	TariffSeasonPayment  TariffType = "season_payment"
	TariffMonthlyPayment TariffType = "monthly_payment"
)

// IsValid reports whether the tariff type is known
func (t TariffType) IsValid() bool {
	return t == TariffSeasonPayment || t == TariffMonthlyPayment
}

// Tariff is a club-defined pricing scheme attachable to berths
type Tariff struct {
	ID     int64
	ClubID int64
	Name   string
	Type   TariffType
	Amount decimal.Decimal // per season for SEASON_PAYMENT, per month for MONTHLY_PAYMENT
	Season int
	Months Months // MONTHLY_PAYMENT only

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsMonthly returns true for monthly tariffs
func (t *Tariff) IsMonthly() bool {
	return t.Type == TariffMonthlyPayment
}
