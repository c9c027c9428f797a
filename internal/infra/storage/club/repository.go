package club

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

// Repository репозиторий клубов (только чтение, клубы ведёт CRUD-модуль)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клубов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает клуб по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Club, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"rental_months",
		"season",
		"min_rental_period",
		"max_rental_period",
		"base_price",
		"min_price_per_month",
	).
		From("clubs").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var club domain.Club
	var rentalMonths pq.Int64Array
	var minPeriod, maxPeriod sql.NullInt64

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&club.ID,
		&club.OwnerID,
		&club.Name,
		&rentalMonths,
		&club.Season,
		&minPeriod,
		&maxPeriod,
		&club.BasePrice,
		&club.MinPricePerMonth,
	)

	if err == sql.ErrNoRows {
		return nil, ErrClubNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan club: %w", ErrScanRow, err)
	}

	club.RentalMonths = domain.MonthsFromInt64(rentalMonths)
	if minPeriod.Valid {
		v := int(minPeriod.Int64)
		club.MinRentalPeriod = &v
	}
	if maxPeriod.Valid {
		v := int(maxPeriod.Int64)
		club.MaxRentalPeriod = &v
	}

	return &club, nil
}
