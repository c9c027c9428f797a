package get_price_quote

import "errors"

var (
	// ErrClubNotFound возвращается, когда клуб не найден
	ErrClubNotFound = errors.New("get_price_quote: club not found")

	// ErrBerthNotFound возвращается, когда причал не найден или принадлежит другому клубу
	ErrBerthNotFound = errors.New("get_price_quote: berth not found")

	// ErrTariffNotFound возвращается, когда тариф не найден
	ErrTariffNotFound = errors.New("get_price_quote: tariff not found")

	// ErrTariffNotLinked возвращается, когда тариф не привязан к причалу или относится к другому клубу
	ErrTariffNotLinked = errors.New("get_price_quote: tariff is not available for this berth")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_price_quote: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_price_quote: internal error")
)
