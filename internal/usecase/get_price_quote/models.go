package get_price_quote

import "github.com/m04kA/SMC-MarinaService/internal/domain"

// Request модель запроса котировки
type Request struct {
	ClubID   int64
	BerthID  int64
	TariffID *int64
}

// Response котировка и длительность аренды, из которой она выведена
type Response struct {
	ClubID       int64
	BerthID      int64
	TariffID     *int64
	DurationDays int
	Quote        *domain.PriceQuote
}
