package get_price_quote

import (
	"github.com/m04kA/SMC-MarinaService/internal/api/handlers"
	getPriceQuote "github.com/m04kA/SMC-MarinaService/internal/usecase/get_price_quote"
)

// PriceQuoteResponse HTTP ответ с котировкой
type PriceQuoteResponse struct {
	ClubID       int64  `json:"clubId"`
	BerthID      int64  `json:"berthId"`
	TariffID     *int64 `json:"tariffId,omitempty"`
	DurationDays int    `json:"durationDays"`
	*handlers.QuoteResponse
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *getPriceQuote.Response) *PriceQuoteResponse {
	return &PriceQuoteResponse{
		ClubID:        resp.ClubID,
		BerthID:       resp.BerthID,
		TariffID:      resp.TariffID,
		DurationDays:  resp.DurationDays,
		QuoteResponse: handlers.FromDomainQuote(resp.Quote),
	}
}
