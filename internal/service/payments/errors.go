package payments

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж не найден
	ErrPaymentNotFound = errors.New("payments.service: payment not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("payments.service: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на платеж
	ErrAccessDenied = errors.New("payments.service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("payments.service: invalid input data")

	// ErrAlreadyPaid возвращается, когда платеж уже оплачен другой транзакцией
	ErrAlreadyPaid = errors.New("payments.service: payment is already paid by another transaction")

	// ErrInvalidTransition возвращается, когда переход статуса платежа недопустим
	ErrInvalidTransition = errors.New("payments.service: invalid payment status transition")

	// ErrPaymentStateConflict возвращается, когда платеж изменён конкурентным запросом
	ErrPaymentStateConflict = errors.New("payments.service: payment was modified concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments.service: internal error")
)
