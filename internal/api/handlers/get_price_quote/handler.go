package get_price_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	"github.com/m04kA/SMC-MarinaService/internal/domain"
	getPriceQuote "github.com/m04kA/SMC-MarinaService/internal/usecase/get_price_quote"
)

const (
	msgInvalidClubID     = "некорректный ID клуба"
	msgInvalidBerthID    = "некорректный ID причала"
	msgInvalidTariffID   = "некорректный ID тарифа"
	msgClubNotFound      = "клуб не найден"
	msgBerthNotFound     = "причал не найден"
	msgTariffNotFound    = "тариф не найден"
	msgTariffNotLinked   = "тариф не привязан к причалу"
	msgTariffRequired    = "для этого причала необходимо выбрать тариф"
	msgRuleConfiguration = "правила клуба настроены некорректно"
)

type Handler struct {
	useCase GetPriceQuoteUseCase
	logger  Logger
}

func NewHandler(useCase GetPriceQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/berths/{berthId}/quote?tariffId=10
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clubID, err := handlers.PathInt64(r, "clubId")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/berths/{berthId}/quote - %v", err)
		handlers.RespondBadRequest(w, msgInvalidClubID)
		return
	}
	berthID, err := handlers.PathInt64(r, "berthId")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/berths/{berthId}/quote - %v", err)
		handlers.RespondBadRequest(w, msgInvalidBerthID)
		return
	}
	tariffID, err := handlers.QueryInt64(r, "tariffId")
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/berths/{berthId}/quote - %v", err)
		handlers.RespondBadRequest(w, msgInvalidTariffID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getPriceQuote.Request{
		ClubID:   clubID,
		BerthID:  berthID,
		TariffID: tariffID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getPriceQuote.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidTariffID)
		case errors.Is(err, getPriceQuote.ErrClubNotFound):
			handlers.RespondNotFound(w, msgClubNotFound)
		case errors.Is(err, getPriceQuote.ErrBerthNotFound):
			handlers.RespondNotFound(w, msgBerthNotFound)
		case errors.Is(err, getPriceQuote.ErrTariffNotFound):
			handlers.RespondNotFound(w, msgTariffNotFound)
		case errors.Is(err, getPriceQuote.ErrTariffNotLinked):
			handlers.RespondUnprocessable(w, msgTariffNotLinked)
		case errors.Is(err, domain.ErrMissingTariffSelection):
			handlers.RespondUnprocessable(w, msgTariffRequired)
		case errors.Is(err, domain.ErrRuleConfiguration):
			h.logger.Error("GET /clubs/{id}/berths/{berthId}/quote - Malformed club rules: club_id=%d, error=%v", clubID, err)
			handlers.RespondUnprocessable(w, msgRuleConfiguration)
		default:
			h.logger.Error("GET /clubs/{id}/berths/{berthId}/quote - Failed to compute quote: club_id=%d, berth_id=%d, error=%v",
				clubID, berthID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
