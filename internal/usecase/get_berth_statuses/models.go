package get_berth_statuses

import "github.com/m04kA/SMC-MarinaService/internal/service/availability"

// Request модель запроса состояния причалов клуба
type Request struct {
	ClubID int64
}

// BerthStatus состояние одного причала
type BerthStatus struct {
	BerthID   int64
	Name      string
	Status    availability.BerthStatus
	BookingID *int64 // живое бронирование, удерживающее причал
	TariffIDs []int64
}

// Response состояние всех причалов клуба, по возрастанию id причала
type Response struct {
	ClubID    int64
	Berths    []BerthStatus
	Available int // количество причалов, доступных для бронирования
}
