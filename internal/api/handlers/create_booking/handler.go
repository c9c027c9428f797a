package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/domain"
	createBooking "github.com/m04kA/SMC-MarinaService/internal/usecase/create_booking"
)

const (
	msgUnauthorized       = "пользователь не авторизован"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgBerthAlreadyBooked = "причал уже забронирован"
	msgBerthUnavailable   = "причал недоступен для бронирования"
	msgClubNotFound       = "клуб не найден"
	msgBerthNotFound      = "причал не найден"
	msgVesselNotFound     = "судно не найдено"
	msgTariffNotFound     = "тариф не найден"
	msgTariffNotLinked    = "тариф не привязан к причалу"
	msgTariffRequired     = "для этого причала необходимо выбрать тариф"
	msgNoChargeableMonths = "у тарифа нет оплачиваемых месяцев"
	msgPeriodOutOfRange   = "срок бронирования не соответствует правилам клуба"
	msgRuleConfiguration  = "правила клуба настроены некорректно"
	msgAccessDenied       = "нет доступа к судну"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBerthAlreadyBooked):
			h.logger.Warn("POST /bookings - Berth already booked: user_id=%d, berth_id=%d", userID, req.BerthID)
			handlers.RespondConflict(w, msgBerthAlreadyBooked)

		case errors.Is(err, createBooking.ErrBerthUnavailable):
			h.logger.Warn("POST /bookings - Berth unavailable: user_id=%d, berth_id=%d", userID, req.BerthID)
			handlers.RespondConflict(w, msgBerthUnavailable)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: user_id=%d, vessel_id=%d", userID, req.VesselID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, createBooking.ErrClubNotFound):
			h.logger.Warn("POST /bookings - Club not found: club_id=%d", req.ClubID)
			handlers.RespondNotFound(w, msgClubNotFound)

		case errors.Is(err, createBooking.ErrBerthNotFound):
			h.logger.Warn("POST /bookings - Berth not found: berth_id=%d", req.BerthID)
			handlers.RespondNotFound(w, msgBerthNotFound)

		case errors.Is(err, createBooking.ErrVesselNotFound):
			h.logger.Warn("POST /bookings - Vessel not found: vessel_id=%d", req.VesselID)
			handlers.RespondNotFound(w, msgVesselNotFound)

		case errors.Is(err, createBooking.ErrTariffNotFound):
			h.logger.Warn("POST /bookings - Tariff not found: tariff_id=%v", req.TariffID)
			handlers.RespondNotFound(w, msgTariffNotFound)

		case errors.Is(err, createBooking.ErrTariffNotLinked):
			h.logger.Warn("POST /bookings - Tariff not linked: berth_id=%d, error=%v", req.BerthID, err)
			handlers.RespondUnprocessable(w, msgTariffNotLinked)

		case errors.Is(err, domain.ErrMissingTariffSelection):
			h.logger.Warn("POST /bookings - Tariff selection required: berth_id=%d", req.BerthID)
			handlers.RespondUnprocessable(w, msgTariffRequired)

		case errors.Is(err, domain.ErrPriceableOnlyWhenMonthsNonEmpty):
			h.logger.Warn("POST /bookings - No chargeable months: berth_id=%d, tariff_id=%v", req.BerthID, req.TariffID)
			handlers.RespondUnprocessable(w, msgNoChargeableMonths)

		case errors.Is(err, domain.ErrBookingPeriodOutOfRange):
			h.logger.Warn("POST /bookings - Period out of range: user_id=%d, error=%v", userID, err)
			handlers.RespondUnprocessable(w, msgPeriodOutOfRange)

		case errors.Is(err, domain.ErrRuleConfiguration):
			h.logger.Error("POST /bookings - Malformed club rules: club_id=%d, error=%v", req.ClubID, err)
			handlers.RespondUnprocessable(w, msgRuleConfiguration)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, club_id=%d, error=%v",
				userID, req.ClubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, berth_id=%d",
		result.Booking.ID, userID, req.BerthID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
