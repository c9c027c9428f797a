package create_booking

import (
	"time"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID      int64      // ID пользователя, оформляющего бронирование
	ClubID      int64      // ID клуба
	BerthID     int64      // ID причала
	VesselID    int64      // ID судна
	TariffID    *int64     // ID тарифа (обязателен, если к причалу привязаны тарифы)
	AutoRenewal bool       // Автопродление на следующий сезон
	StartDate   *time.Time // Начало аренды (опционально, вместе с EndDate)
	EndDate     *time.Time // Окончание аренды (опционально, вместе с StartDate)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking  *domain.Booking    // Созданное бронирование в статусе pending
	Quote    *domain.PriceQuote // Котировка, по которой рассчитана цена
	Payments []*domain.Payment  // График платежей
}
