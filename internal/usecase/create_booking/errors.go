package create_booking

import "errors"

var (
	// ErrClubNotFound возвращается, когда клуб не найден
	ErrClubNotFound = errors.New("create_booking: club not found")

	// ErrBerthNotFound возвращается, когда причал не найден или принадлежит другому клубу
	ErrBerthNotFound = errors.New("create_booking: berth not found")

	// ErrVesselNotFound возвращается, когда судно не найдено
	ErrVesselNotFound = errors.New("create_booking: vessel not found")

	// ErrTariffNotFound возвращается, когда выбранный тариф не найден
	ErrTariffNotFound = errors.New("create_booking: tariff not found")

	// ErrTariffNotLinked возвращается, когда тариф не привязан к причалу или относится к другому клубу
	ErrTariffNotLinked = errors.New("create_booking: tariff is not available for this berth")

	// ErrBerthUnavailable возвращается, когда причал снят с бронирования администратором
	ErrBerthUnavailable = errors.New("create_booking: berth is not available for booking")

	// ErrAccessDenied возвращается, когда пользователь не владелец судна и не администратор
	ErrAccessDenied = errors.New("create_booking: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
