package bookings

import (
	"context"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	"github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByOwnerID(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByClubWithFilter(ctx context.Context, filter domain.ClubBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error)
	Cancel(ctx context.Context, id int64, reason string) (bool, error)
}

// PaymentRepository интерфейс репозитория платежей (только чтение)
type PaymentRepository interface {
	GetByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error)
}

// ClubRepository интерфейс репозитория клубов (только чтение)
type ClubRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Club, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// EventPublisher интерфейс издателя доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
