package get_berth_statuses

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	getBerthStatuses "github.com/m04kA/SMC-MarinaService/internal/usecase/get_berth_statuses"
)

const (
	msgInvalidClubID = "некорректный ID клуба"
	msgClubNotFound  = "клуб не найден"
)

type Handler struct {
	useCase GetBerthStatusesUseCase
	logger  Logger
}

func NewHandler(useCase GetBerthStatusesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/berths/statuses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clubID, err := handlers.PathInt64(r, "clubId")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/berths/statuses - %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getBerthStatuses.Request{ClubID: clubID})
	if err != nil {
		switch {
		case errors.Is(err, getBerthStatuses.ErrClubNotFound):
			h.logger.Warn("GET /clubs/{id}/berths/statuses - Club not found: club_id=%d", clubID)
			handlers.RespondNotFound(w, msgClubNotFound)
		case errors.Is(err, getBerthStatuses.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidClubID)
		default:
			h.logger.Error("GET /clubs/{id}/berths/statuses - Failed to get berth statuses: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
