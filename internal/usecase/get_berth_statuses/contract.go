package get_berth_statuses

import (
	"context"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

// ClubRepository интерфейс репозитория клубов (только чтение)
type ClubRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Club, error)
}

// BerthRepository интерфейс репозитория причалов (только чтение)
type BerthRepository interface {
	GetByClub(ctx context.Context, clubID int64) ([]*domain.Berth, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByClubWithFilter без IncludeInactive возвращает только живые бронирования
	GetByClubWithFilter(ctx context.Context, filter domain.ClubBookingsFilter) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
