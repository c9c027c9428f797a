package get_price_quote

import (
	"context"

	getPriceQuote "github.com/m04kA/SMC-MarinaService/internal/usecase/get_price_quote"
)

type GetPriceQuoteUseCase interface {
	Execute(ctx context.Context, req *getPriceQuote.Request) (*getPriceQuote.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
