package rule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarinaService/pkg/psqlbuilder"
)

// Repository репозиторий правил бронирования
// Параметры хранятся в JSONB и при чтении разбираются в типизированный вариант по rule_type
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое правило
func (r *Repository) Create(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	params, err := domain.EncodeRuleParams(rule.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - encode parameters: %v", ErrEncodeParams, err)
	}

	query, args, err := psqlbuilder.Insert("booking_rules").
		Columns(
			"club_id",
			"tariff_id",
			"rule_type",
			"parameters",
			"description",
		).
		Values(
			rule.ClubID,
			rule.TariffID,
			rule.Type,
			string(params),
			rule.Description,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return rule, nil
}

// GetByClub получает правила клуба, упорядоченные по id
// Если tariffID указан, возвращаются общие правила клуба и правила этого тарифа,
// иначе - все правила клуба
//
// Правило с параметрами, не подходящими под его тип, возвращается как
// *domain.RuleConfigurationError: такое правило нельзя молча пропустить
func (r *Repository) GetByClub(ctx context.Context, clubID int64, tariffID *int64) ([]domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"club_id",
		"tariff_id",
		"rule_type",
		"parameters",
		"description",
		"created_at",
		"updated_at",
	).
		From("booking_rules").
		Where(squirrel.Eq{"club_id": clubID}).
		OrderBy("id ASC")

	if tariffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"tariff_id": nil},
			squirrel.Eq{"tariff_id": *tariffID},
		})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClub - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClub - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.BookingRule, 0)
	for rows.Next() {
		var rule domain.BookingRule
		var tariff sql.NullInt64
		var description sql.NullString
		var raw []byte

		if err := rows.Scan(
			&rule.ID,
			&rule.ClubID,
			&tariff,
			&rule.Type,
			&raw,
			&description,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetByClub - scan rule: %w", ErrScanRow, err)
		}

		if tariff.Valid {
			id := tariff.Int64
			rule.TariffID = &id
		}
		if description.Valid {
			d := description.String
			rule.Description = &d
		}

		params, err := domain.DecodeRuleParams(rule.ID, rule.Type, raw)
		if err != nil {
			return nil, err
		}
		rule.Params = params

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByClub - rows error: %w", ErrScanRow, err)
	}

	return rules, nil
}

// Delete удаляет правило клуба
func (r *Repository) Delete(ctx context.Context, clubID, ruleID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("booking_rules").
		Where(squirrel.Eq{"id": ruleID, "club_id": clubID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}
