package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// LiveStatuses occupy or reserve a berth. At most one booking per berth may be in one of them.
var LiveStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusActive}

// InactiveStatuses are terminal
var InactiveStatuses = []BookingStatus{StatusCompleted, StatusCancelled}

// bookingTransitions PENDING → CONFIRMED → ACTIVE → COMPLETED, CANCELLED from PENDING or CONFIRMED
var bookingTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted},
}

// IsValid reports whether the status is known
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsLive returns true for PENDING, CONFIRMED and ACTIVE
func (s BookingStatus) IsLive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusActive
}

// IsTerminal returns true for COMPLETED and CANCELLED
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the state machine allows s → next
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a reservation of a berth by a vessel owner
type Booking struct {
	ID             int64
	ClubID         int64
	BerthID        int64
	VesselID       int64
	OwnerID        int64
	TariffID       *int64
	Status         BookingStatus
	TotalPrice     decimal.Decimal
	DepositAmount  decimal.Decimal
	AutoRenewal    bool
	StartDate      *time.Time
	EndDate        *time.Time
	AppliedRuleIDs []int64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLive returns true if the booking holds its berth
func (b *Booking) IsLive() bool {
	return b.Status.IsLive()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// IsOwnedBy returns true if the booking was made by the user
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.OwnerID == userID
}

// ClubBookingsFilter фильтр для получения бронирований клуба
type ClubBookingsFilter struct {
	ClubID          int64          // Обязательный параметр
	BerthID         *int64         // Фильтр по причалу (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершённые и отменённые бронирования
}
