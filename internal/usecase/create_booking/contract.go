package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	"github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetLiveByBerth(ctx context.Context, berthID int64) ([]*domain.Booking, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	CreateBatch(ctx context.Context, payments []*domain.Payment) ([]*domain.Payment, error)
}

// ClubRepository интерфейс репозитория клубов (только чтение)
type ClubRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Club, error)
}

// BerthRepository интерфейс репозитория причалов
// Внутри транзакции GetByID блокирует строку причала
type BerthRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Berth, error)
}

// VesselRepository интерфейс репозитория судов (только чтение)
type VesselRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vessel, error)
}

// TariffRepository интерфейс репозитория тарифов (только чтение)
type TariffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tariff, error)
}

// RuleRepository интерфейс репозитория правил бронирования
type RuleRepository interface {
	GetByClub(ctx context.Context, clubID int64, tariffID *int64) ([]domain.BookingRule, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс издателя доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics бизнес-метрики создания бронирований
type Metrics interface {
	IncBookingCreated(tariffType string)
	IncBookingConflict(stage string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
