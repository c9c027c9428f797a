package delete_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/api/middleware"
	"github.com/m04kA/SMC-MarinaService/internal/service/rules"
)

const (
	msgUnauthorized  = "пользователь не авторизован"
	msgInvalidClubID = "некорректный ID клуба"
	msgInvalidRuleID = "некорректный ID правила"
	msgClubNotFound  = "клуб не найден"
	msgRuleNotFound  = "правило не найдено"
	msgAccessDenied  = "правила может настраивать только владелец клуба или администратор"
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

// Handle DELETE /api/v1/clubs/{clubId}/rules/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	clubID, err := handlers.PathInt64(r, "clubId")
	if err != nil {
		h.logger.Warn("DELETE /clubs/{id}/rules/{ruleId} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}
	ruleID, err := handlers.PathInt64(r, "ruleId")
	if err != nil {
		h.logger.Warn("DELETE /clubs/{id}/rules/{ruleId} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	if err := h.service.Delete(r.Context(), clubID, ruleID, userID); err != nil {
		switch {
		case errors.Is(err, rules.ErrClubNotFound):
			handlers.RespondNotFound(w, msgClubNotFound)
		case errors.Is(err, rules.ErrRuleNotFound):
			h.logger.Warn("DELETE /clubs/{id}/rules/{ruleId} - Rule not found: club_id=%d, rule_id=%d", clubID, ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)
		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("DELETE /clubs/{id}/rules/{ruleId} - Access denied: club_id=%d, user_id=%d", clubID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)
		default:
			h.logger.Error("DELETE /clubs/{id}/rules/{ruleId} - Failed to delete rule: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /clubs/{id}/rules/{ruleId} - Rule deleted: club_id=%d, rule_id=%d", clubID, ruleID)
	w.WriteHeader(http.StatusNoContent)
}
