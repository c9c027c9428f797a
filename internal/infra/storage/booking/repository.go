package booking

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

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"club_id",
	"berth_id",
	"vessel_id",
	"owner_id",
	"tariff_id",
	"status",
	"total_price",
	"deposit_amount",
	"auto_renewal",
	"start_date",
	"end_date",
	"applied_rule_ids",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
//
// Гарантия "не больше одного живого бронирования на причал" держится на
// частичном уникальном индексе bookings_one_live_per_berth: проигравший гонку
// получает ErrBerthAlreadyBooked, даже если предварительная проверка его пропустила.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	appliedRuleIDs := booking.AppliedRuleIDs
	if appliedRuleIDs == nil {
		appliedRuleIDs = []int64{}
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"club_id",
			"berth_id",
			"vessel_id",
			"owner_id",
			"tariff_id",
			"status",
			"total_price",
			"deposit_amount",
			"auto_renewal",
			"start_date",
			"end_date",
			"applied_rule_ids",
		).
		Values(
			booking.ClubID,
			booking.BerthID,
			booking.VesselID,
			booking.OwnerID,
			booking.TariffID,
			booking.Status,
			booking.TotalPrice,
			booking.DepositAmount,
			booking.AutoRenewal,
			booking.StartDate,
			booking.EndDate,
			pq.Int64Array(appliedRuleIDs),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if IsBerthConflict(err) {
			return nil, fmt.Errorf("%w: Create - berth_id=%d: %w", ErrBerthAlreadyBooked, booking.BerthID, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.AppliedRuleIDs = appliedRuleIDs
	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByIDForUpdate получает бронирование по ID и блокирует строку до конца транзакции
// Сериализует изменения платежей одного бронирования. Вне транзакции блокировка снимается сразу.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDForUpdate - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByOwnerID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByOwnerID(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC", "id DESC")

	// Фильтрация по статусу, если указан
	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwnerID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByClubWithFilter получает бронирования клуба с фильтрацией
// По умолчанию возвращает только живые бронирования (pending, confirmed, active)
//
// Примеры использования:
//
//  1. Все живые бронирования клуба:
//     filter := domain.ClubBookingsFilter{ClubID: 1}
//
//  2. Бронирования конкретного причала, включая завершённые:
//     filter := domain.ClubBookingsFilter{ClubID: 1, BerthID: &berthID, IncludeInactive: true}
//
//  3. Только ожидающие оплаты:
//     status := domain.StatusPending
//     filter := domain.ClubBookingsFilter{ClubID: 1, Status: &status}
func (r *Repository) GetByClubWithFilter(ctx context.Context, filter domain.ClubBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"club_id": filter.ClubID})

	if filter.BerthID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"berth_id": *filter.BerthID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.LiveStatuses)})
	}

	query, args, err := selectBuilder.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClubWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClubWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetLiveByBerth получает живые бронирования причала
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetLiveByBerth(ctx context.Context, berthID int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"berth_id": berthID}).
		Where(squirrel.Eq{"status": statusStrings(domain.LiveStatuses)}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLiveByBerth - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if IsBerthConflict(err) {
			return nil, fmt.Errorf("%w: GetLiveByBerth - berth_id=%d: %w", ErrBerthAlreadyBooked, berthID, err)
		}
		return nil, fmt.Errorf("%w: GetLiveByBerth - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus переводит бронирование в статус to, только если текущий статус входит в from
// Возвращает false, если условие по статусу не выполнилось (бронирование уже в другом статусе)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": statusStrings(from)}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// Cancel отменяет бронирование с указанием причины
// Отменить можно только бронирование в статусе pending или confirmed
// Возвращает false, если бронирование уже в другом статусе
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": statusStrings([]domain.BookingStatus{domain.StatusPending, domain.StatusConfirmed})}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: Cancel - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var tariffID sql.NullInt64
	var startDate, endDate, cancelledAt sql.NullTime
	var cancellationReason sql.NullString
	var appliedRuleIDs pq.Int64Array

	err := row.Scan(
		&booking.ID,
		&booking.ClubID,
		&booking.BerthID,
		&booking.VesselID,
		&booking.OwnerID,
		&tariffID,
		&booking.Status,
		&booking.TotalPrice,
		&booking.DepositAmount,
		&booking.AutoRenewal,
		&startDate,
		&endDate,
		&appliedRuleIDs,
		&cancellationReason,
		&cancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tariffID.Valid {
		id := tariffID.Int64
		booking.TariffID = &id
	}
	if startDate.Valid {
		t := startDate.Time
		booking.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		booking.EndDate = &t
	}
	if cancellationReason.Valid {
		reason := cancellationReason.String
		booking.CancellationReason = &reason
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		booking.CancelledAt = &t
	}
	booking.AppliedRuleIDs = []int64(appliedRuleIDs)
	if booking.AppliedRuleIDs == nil {
		booking.AppliedRuleIDs = []int64{}
	}

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan booking: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
