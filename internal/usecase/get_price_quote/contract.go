package get_price_quote

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
	GetByID(ctx context.Context, id int64) (*domain.Berth, error)
}

// TariffRepository интерфейс репозитория тарифов (только чтение)
type TariffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tariff, error)
}

// RuleRepository интерфейс репозитория правил бронирования
type RuleRepository interface {
	GetByClub(ctx context.Context, clubID int64, tariffID *int64) ([]domain.BookingRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
