package get_club_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/service/bookings"
	"github.com/m04kA/SMC-MarinaService/internal/service/bookings/models"
)

const (
	msgUnauthorized  = "пользователь не авторизован"
	msgInvalidClubID = "некорректный ID клуба"
	msgInvalidFilter = "некорректные параметры фильтра"
	msgClubNotFound  = "клуб не найден"
	msgAccessDenied  = "нет доступа к бронированиям клуба"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/bookings?berthId=5&status=pending&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	clubID, err := handlers.PathInt64(r, "clubId")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/bookings - %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	berthID, err := handlers.QueryInt64(r, "berthId")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/bookings - %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}
	includeInactive, err := handlers.QueryBool(r, "includeInactive")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/bookings - Invalid includeInactive: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	resp, err := h.service.GetClubBookings(r.Context(), &models.GetClubBookingsRequest{
		UserID:          userID,
		ClubID:          clubID,
		BerthID:         berthID,
		Status:          handlers.QueryString(r, "status"),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidFilter)
		case errors.Is(err, bookings.ErrClubNotFound):
			h.logger.Warn("GET /clubs/{id}/bookings - Club not found: club_id=%d", clubID)
			handlers.RespondNotFound(w, msgClubNotFound)
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /clubs/{id}/bookings - Access denied: club_id=%d, user_id=%d", clubID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("GET /clubs/{id}/bookings - Failed to get bookings: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
