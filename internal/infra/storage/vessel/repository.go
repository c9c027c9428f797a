package vessel

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarinaService/pkg/psqlbuilder"
)

// Repository репозиторий судов (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория судов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает судно по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Vessel, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "owner_id", "name", "length", "width").
		From("vessels").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var vessel domain.Vessel
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&vessel.ID,
		&vessel.OwnerID,
		&vessel.Name,
		&vessel.Length,
		&vessel.Width,
	)

	if err == sql.ErrNoRows {
		return nil, ErrVesselNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan vessel: %w", ErrScanRow, err)
	}

	return &vessel, nil
}
