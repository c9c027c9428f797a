package create_booking

import (
	"time"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/domain"
	bookingModels "github.com/m04kA/SMC-MarinaService/internal/service/bookings/models"
	paymentModels "github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
	createBooking "github.com/m04kA/SMC-MarinaService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP запрос на создание бронирования
type CreateBookingRequest struct {
	ClubID      int64   `json:"clubId" validate:"required,gt=0"`
	BerthID     int64   `json:"berthId" validate:"required,gt=0"`
	VesselID    int64   `json:"vesselId" validate:"required,gt=0"`
	TariffID    *int64  `json:"tariffId,omitempty" validate:"omitempty,gt=0"`
	AutoRenewal bool    `json:"autoRenewal"`
	StartDate   *string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"` // "2025-06-01"
	EndDate     *string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	req := &createBooking.Request{
		UserID:      userID,
		ClubID:      r.ClubID,
		BerthID:     r.BerthID,
		VesselID:    r.VesselID,
		TariffID:    r.TariffID,
		AutoRenewal: r.AutoRenewal,
	}

	if r.StartDate != nil {
		start, err := time.Parse(domain.DateFormat, *r.StartDate)
		if err != nil {
			return nil, err
		}
		req.StartDate = &start
	}
	if r.EndDate != nil {
		end, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return nil, err
		}
		req.EndDate = &end
	}

	return req, nil
}

// CreateBookingResponse созданное бронирование вместе с котировкой и графиком платежей
type CreateBookingResponse struct {
	Booking  *bookingModels.BookingResponse  `json:"booking"`
	Quote    *handlers.QuoteResponse         `json:"quote"`
	Payments []paymentModels.PaymentResponse `json:"payments"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:  bookingModels.FromDomainBooking(resp.Booking),
		Quote:    handlers.FromDomainQuote(resp.Quote),
		Payments: paymentModels.FromDomainPaymentList(resp.Payments).Payments,
	}
}
