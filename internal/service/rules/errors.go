package rules

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило не найдено
	ErrRuleNotFound = errors.New("rules.service: rule not found")

	// ErrClubNotFound возвращается, когда клуб не найден
	ErrClubNotFound = errors.New("rules.service: club not found")

	// ErrTariffNotFound возвращается, когда тариф не найден или принадлежит другому клубу
	ErrTariffNotFound = errors.New("rules.service: tariff not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец клуба и не администратор
	ErrAccessDenied = errors.New("rules.service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("rules.service: invalid input data")

	// ErrInvalidRuleParams возвращается, когда параметры не соответствуют типу правила
	ErrInvalidRuleParams = errors.New("rules.service: rule parameters do not match rule type")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rules.service: internal error")
)
