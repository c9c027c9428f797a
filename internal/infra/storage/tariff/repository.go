package tariff

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarinaService/pkg/psqlbuilder"
)

// Repository репозиторий тарифов (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория тарифов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тариф по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Tariff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"club_id",
		"name",
		"type",
		"amount",
		"season",
		"months",
		"created_at",
		"updated_at",
	).
		From("tariffs").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var tariff domain.Tariff
	var months pq.Int64Array

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tariff.ID,
		&tariff.ClubID,
		&tariff.Name,
		&tariff.Type,
		&tariff.Amount,
		&tariff.Season,
		&months,
		&tariff.CreatedAt,
		&tariff.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTariffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan tariff: %w", ErrScanRow, err)
	}

	tariff.Months = domain.MonthsFromInt64(months)
	return &tariff, nil
}
