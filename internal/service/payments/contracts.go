package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	"github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error)
	MarkOverdue(ctx context.Context, id int64, penalty decimal.Decimal, version int) (bool, error)
	MarkPaid(ctx context.Context, id int64, transactionID string, paidDate time.Time, settledPenalty decimal.Decimal, version int) (bool, error)
	MarkRefunded(ctx context.Context, id int64, refundedAt time.Time, version int) (bool, error)
}

// BookingRepository интерфейс репозитория бронирований (только чтение)
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
}

// ClubRepository интерфейс репозитория клубов (только чтение)
type ClubRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Club, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// BookingStatusNotifier пересчитывает статус бронирования после изменения платежа
type BookingStatusNotifier interface {
	OnPaymentStatusChanged(ctx context.Context, bookingID int64) (bool, error)
}

// EventPublisher интерфейс издателя доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics бизнес-метрики платежей
type Metrics interface {
	IncPaymentOverdue()
	IncPaymentPaid(kind string)
	IncBookingConfirmed()
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
