package list_rules

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/service/rules"
	"github.com/m04kA/SMC-MarinaService/internal/service/rules/models"
)

const (
	msgUnauthorized      = "пользователь не авторизован"
	msgInvalidClubID     = "некорректный ID клуба"
	msgInvalidTariffID   = "некорректный ID тарифа"
	msgClubNotFound      = "клуб не найден"
	msgTariffNotFound    = "тариф не найден"
	msgAccessDenied      = "нет доступа к правилам клуба"
	msgRuleConfiguration = "правила клуба настроены некорректно"
)

type Handler struct {
	service RuleService
	logger  Logger
}

func NewHandler(service RuleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/rules?tariffId=10
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	clubID, err := handlers.PathInt64(r, "clubId")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/rules - %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}
	tariffID, err := handlers.QueryInt64(r, "tariffId")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/rules - %v", err)
		handlers.RespondBadRequest(w, msgInvalidTariffID)
		return
	}

	resp, err := h.service.List(r.Context(), &models.ListRulesRequest{
		UserID:   userID,
		ClubID:   clubID,
		TariffID: tariffID,
	})
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrClubNotFound):
			h.logger.Warn("GET /clubs/{id}/rules - Club not found: club_id=%d", clubID)
			handlers.RespondNotFound(w, msgClubNotFound)
		case errors.Is(err, rules.ErrTariffNotFound):
			handlers.RespondNotFound(w, msgTariffNotFound)
		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("GET /clubs/{id}/rules - Access denied: club_id=%d, user_id=%d", clubID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, domain.ErrRuleConfiguration):
			h.logger.Error("GET /clubs/{id}/rules - Malformed rule: club_id=%d, error=%v", clubID, err)
			handlers.RespondUnprocessable(w, msgRuleConfiguration)
		default:
			h.logger.Error("GET /clubs/{id}/rules - Failed to list rules: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
