package create_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/service/rules"
)

const (
	msgUnauthorized       = "пользователь не авторизован"
	msgInvalidClubID      = "некорректный ID клуба"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidRuleParams  = "параметры не соответствуют типу правила"
	msgClubNotFound       = "клуб не найден"
	msgTariffNotFound     = "тариф не найден"
	msgAccessDenied       = "правила может настраивать только владелец клуба или администратор"
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

// Handle POST /api/v1/clubs/{clubId}/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	clubID, err := handlers.PathInt64(r, "clubId")
	if err != nil {
		h.logger.Warn("POST /clubs/{id}/rules - %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}

	var req CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clubs/{id}/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /clubs/{id}/rules - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	rule, err := h.service.Create(r.Context(), req.ToServiceRequest(userID, clubID))
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrInvalidRuleParams):
			h.logger.Warn("POST /clubs/{id}/rules - Invalid params: club_id=%d, error=%v", clubID, err)
			handlers.RespondBadRequest(w, msgInvalidRuleParams)
		case errors.Is(err, rules.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		case errors.Is(err, rules.ErrClubNotFound):
			h.logger.Warn("POST /clubs/{id}/rules - Club not found: club_id=%d", clubID)
			handlers.RespondNotFound(w, msgClubNotFound)
		case errors.Is(err, rules.ErrTariffNotFound):
			h.logger.Warn("POST /clubs/{id}/rules - Tariff not found: club_id=%d, tariff_id=%v", clubID, req.TariffID)
			handlers.RespondNotFound(w, msgTariffNotFound)
		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("POST /clubs/{id}/rules - Access denied: club_id=%d, user_id=%d", clubID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("POST /clubs/{id}/rules - Failed to create rule: club_id=%d, error=%v", clubID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /clubs/{id}/rules - Rule created: rule_id=%d, club_id=%d, type=%s", rule.ID, clubID, rule.RuleType)
	handlers.RespondJSON(w, http.StatusCreated, rule)
}
