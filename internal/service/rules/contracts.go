package rules

import (
	"context"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
)

// RuleRepository интерфейс репозитория правил бронирования
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error)
	GetByClub(ctx context.Context, clubID int64, tariffID *int64) ([]domain.BookingRule, error)
	Delete(ctx context.Context, clubID, ruleID int64) error
}

// ClubRepository интерфейс репозитория клубов (только чтение)
type ClubRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Club, error)
}

// TariffRepository интерфейс репозитория тарифов (только чтение)
type TariffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Tariff, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
