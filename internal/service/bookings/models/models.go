package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	RequesterID int64   `json:"-"` // кто запрашивает
	UserID      int64   `json:"userId"`
	Status      *string `json:"status,omitempty"`
}

// GetClubBookingsRequest запрос на получение бронирований клуба
type GetClubBookingsRequest struct {
	UserID          int64   `json:"userId"`
	ClubID          int64   `json:"clubId"`
	BerthID         *int64  `json:"berthId,omitempty"`         // Фильтр по причалу (опционально)
	Status          *string `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool    `json:"includeInactive,omitempty"` // Включить завершённые и отменённые
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetClubBookingsRequest) ToDomainFilter() (domain.ClubBookingsFilter, error) {
	filter := domain.ClubBookingsFilter{
		ClubID:          r.ClubID,
		BerthID:         r.BerthID,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             int64           `json:"id"`
	ClubID         int64           `json:"clubId"`
	BerthID        int64           `json:"berthId"`
	VesselID       int64           `json:"vesselId"`
	OwnerID        int64           `json:"ownerId"`
	TariffID       *int64          `json:"tariffId,omitempty"`
	Status         string          `json:"status"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	DepositAmount  decimal.Decimal `json:"depositAmount"`
	AutoRenewal    bool            `json:"autoRenewal"`
	StartDate      *string         `json:"startDate,omitempty"` // "2025-06-01"
	EndDate        *string         `json:"endDate,omitempty"`
	AppliedRuleIDs []int64         `json:"appliedRuleIds"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		ClubID:             b.ClubID,
		BerthID:            b.BerthID,
		VesselID:           b.VesselID,
		OwnerID:            b.OwnerID,
		TariffID:           b.TariffID,
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice,
		DepositAmount:      b.DepositAmount,
		AutoRenewal:        b.AutoRenewal,
		AppliedRuleIDs:     b.AppliedRuleIDs,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if resp.AppliedRuleIDs == nil {
		resp.AppliedRuleIDs = []int64{}
	}
	if b.StartDate != nil {
		start := b.StartDate.Format(domain.DateFormat)
		resp.StartDate = &start
	}
	if b.EndDate != nil {
		end := b.EndDate.Format(domain.DateFormat)
		resp.EndDate = &end
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
