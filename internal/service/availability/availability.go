package availability

import "github.com/m04kA/SMC-MarinaService/internal/domain"

// BerthStatus состояние причала для отображения
type BerthStatus string

const (
	// StatusAvailable причал можно бронировать
	StatusAvailable BerthStatus = "available"
	// StatusPending причал удерживается бронированием, ожидающим оплаты
	StatusPending BerthStatus = "pending"
	// StatusBooked причал занят подтверждённым или действующим бронированием
	StatusBooked BerthStatus = "booked"
	// StatusUnavailable причал снят с бронирования администратором
	StatusUnavailable BerthStatus = "unavailable"
)

// IsBookable причал доступен и на нём нет живого бронирования
func IsBookable(berth *domain.Berth, bookings []*domain.Booking) bool {
	if !berth.IsAvailable {
		return false
	}
	return liveBooking(berth, bookings) == nil
}

// Status состояние причала
// Флаг доступности важнее бронирований: снятый причал всегда unavailable
func Status(berth *domain.Berth, bookings []*domain.Booking) BerthStatus {
	if !berth.IsAvailable {
		return StatusUnavailable
	}

	live := liveBooking(berth, bookings)
	switch {
	case live == nil:
		return StatusAvailable
	case live.Status == domain.StatusPending:
		return StatusPending
	default:
		return StatusBooked
	}
}

// liveBooking первое живое бронирование этого причала
func liveBooking(berth *domain.Berth, bookings []*domain.Booking) *domain.Booking {
	for _, b := range bookings {
		if b != nil && b.BerthID == berth.ID && b.IsLive() {
			return b
		}
	}
	return nil
}
