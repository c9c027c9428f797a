package payment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarinaService/pkg/psqlbuilder"
)

// Repository репозиторий платежей по бронированиям
//
// Все переходы статусов выполняются условными UPDATE: строка меняется, только если
// её статус входит в допустимый набор и версия совпадает с прочитанной. Проигравший
// гонку получает false и должен перечитать платеж.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var paymentColumns = []string{
	"id",
	"booking_id",
	"payer_id",
	"kind",
	"month",
	"amount",
	"status",
	"required",
	"due_date",
	"penalty",
	"settled_penalty",
	"transaction_id",
	"paid_date",
	"refunded_at",
	"version",
	"created_at",
	"updated_at",
}

// CreateBatch создает график платежей бронирования
// Вызывается внутри транзакции создания бронирования
func (r *Repository) CreateBatch(ctx context.Context, payments []*domain.Payment) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, p := range payments {
		query, args, err := psqlbuilder.Insert("payments").
			Columns(
				"booking_id",
				"payer_id",
				"kind",
				"month",
				"amount",
				"status",
				"required",
				"due_date",
			).
			Values(
				p.BookingID,
				p.PayerID,
				p.Kind,
				p.Month,
				p.Amount,
				p.Status,
				p.Required,
				p.DueDate,
			).
			Suffix("RETURNING id, penalty, settled_penalty, version, created_at, updated_at").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
		}

		err = executor.QueryRowContext(ctx, query, args...).Scan(
			&p.ID,
			&p.Penalty,
			&p.SettledPenalty,
			&p.Version,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: CreateBatch - insert payment for booking_id=%d: %w", ErrExecQuery, p.BookingID, err)
		}
	}

	return payments, nil
}

// GetByID получает платеж по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	payment, err := scanPayment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan payment: %w", ErrScanRow, err)
	}

	return payment, nil
}

// GetByBooking получает все платежи бронирования в порядке сроков оплаты
func (r *Repository) GetByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("due_date ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBooking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBooking - scan payment: %w", ErrScanRow, err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBooking - rows error: %w", ErrScanRow, err)
	}

	return payments, nil
}

// MarkOverdue переводит платеж в OVERDUE с пересчитанной пеней
func (r *Repository) MarkOverdue(ctx context.Context, id int64, penalty decimal.Decimal, version int) (bool, error) {
	return r.guardedUpdate(ctx, "MarkOverdue", id, version,
		[]domain.PaymentStatus{domain.PaymentPending, domain.PaymentOverdue},
		map[string]interface{}{
			"status":  domain.PaymentOverdue,
			"penalty": penalty,
		},
	)
}

// MarkPaid переводит платеж в PAID
// Пеня на дату оплаты фиксируется в settled_penalty, текущая пеня обнуляется
func (r *Repository) MarkPaid(ctx context.Context, id int64, transactionID string, paidDate time.Time, settledPenalty decimal.Decimal, version int) (bool, error) {
	return r.guardedUpdate(ctx, "MarkPaid", id, version,
		[]domain.PaymentStatus{domain.PaymentPending, domain.PaymentOverdue},
		map[string]interface{}{
			"status":          domain.PaymentPaid,
			"penalty":         decimal.Zero,
			"settled_penalty": settledPenalty,
			"transaction_id":  transactionID,
			"paid_date":       paidDate,
		},
	)
}

// MarkRefunded переводит платеж в REFUNDED и обнуляет пеню
func (r *Repository) MarkRefunded(ctx context.Context, id int64, refundedAt time.Time, version int) (bool, error) {
	return r.guardedUpdate(ctx, "MarkRefunded", id, version,
		[]domain.PaymentStatus{domain.PaymentPending, domain.PaymentOverdue, domain.PaymentPaid},
		map[string]interface{}{
			"status":      domain.PaymentRefunded,
			"penalty":     decimal.Zero,
			"refunded_at": refundedAt,
		},
	)
}

func (r *Repository) guardedUpdate(
	ctx context.Context,
	op string,
	id int64,
	version int,
	from []domain.PaymentStatus,
	values map[string]interface{},
) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	fromStatuses := make([]string, len(from))
	for i, s := range from {
		fromStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Update("payments").
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStatuses}).
		Where(squirrel.Eq{"version": version}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var payment domain.Payment
	var month sql.NullInt64
	var transactionID sql.NullString
	var paidDate, refundedAt sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.PayerID,
		&payment.Kind,
		&month,
		&payment.Amount,
		&payment.Status,
		&payment.Required,
		&payment.DueDate,
		&payment.Penalty,
		&payment.SettledPenalty,
		&transactionID,
		&paidDate,
		&refundedAt,
		&payment.Version,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if month.Valid {
		m := int(month.Int64)
		payment.Month = &m
	}
	if transactionID.Valid {
		id := transactionID.String
		payment.TransactionID = &id
	}
	if paidDate.Valid {
		t := paidDate.Time
		payment.PaidDate = &t
	}
	if refundedAt.Valid {
		t := refundedAt.Time
		payment.RefundedAt = &t
	}

	return &payment, nil
}
