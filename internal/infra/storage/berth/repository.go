package berth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarinaService/pkg/psqlbuilder"
)

// Repository репозиторий причалов (только чтение)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория причалов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var berthColumns = []string{"id", "club_id", "name", "is_available", "length", "width"}

// GetByID получает причал по ID вместе со связями с тарифами
// Внутри транзакции строка причала блокируется (FOR UPDATE): конкурентные
// попытки забронировать один причал выстраиваются в очередь
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Berth, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(berthColumns...).
		From("berths").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var berth domain.Berth
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&berth.ID,
		&berth.ClubID,
		&berth.Name,
		&berth.IsAvailable,
		&berth.Length,
		&berth.Width,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBerthNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan berth: %w", ErrScanRow, err)
	}

	links, err := r.getTariffLinks(ctx, []int64{berth.ID})
	if err != nil {
		return nil, err
	}
	berth.TariffIDs = links[berth.ID]

	return &berth, nil
}

// GetByClub получает все причалы клуба, упорядоченные по id
func (r *Repository) GetByClub(ctx context.Context, clubID int64) ([]*domain.Berth, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(berthColumns...).
		From("berths").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClub - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClub - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	berths := make([]*domain.Berth, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var berth domain.Berth
		if err := rows.Scan(
			&berth.ID,
			&berth.ClubID,
			&berth.Name,
			&berth.IsAvailable,
			&berth.Length,
			&berth.Width,
		); err != nil {
			return nil, fmt.Errorf("%w: GetByClub - scan berth: %w", ErrScanRow, err)
		}
		berths = append(berths, &berth)
		ids = append(ids, berth.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByClub - rows error: %w", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return berths, nil
	}

	links, err := r.getTariffLinks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, berth := range berths {
		berth.TariffIDs = links[berth.ID]
	}

	return berths, nil
}

// getTariffLinks возвращает id тарифов для каждого причала (TariffBerth)
func (r *Repository) getTariffLinks(ctx context.Context, berthIDs []int64) (map[int64][]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("berth_id", "tariff_id").
		From("tariff_berths").
		Where(squirrel.Eq{"berth_id": berthIDs}).
		OrderBy("berth_id ASC", "tariff_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getTariffLinks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getTariffLinks - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	links := make(map[int64][]int64, len(berthIDs))
	for rows.Next() {
		var berthID, tariffID int64
		if err := rows.Scan(&berthID, &tariffID); err != nil {
			return nil, fmt.Errorf("%w: getTariffLinks - scan link: %w", ErrScanRow, err)
		}
		links[berthID] = append(links[berthID], tariffID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getTariffLinks - rows error: %w", ErrScanRow, err)
	}

	return links, nil
}
