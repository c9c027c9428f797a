package booking

import (
	"errors"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

const (
	// liveBookingIndex частичный уникальный индекс "одно живое бронирование на причал"
	liveBookingIndex = "bookings_one_live_per_berth"

	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
)

// IsBerthConflict сообщает, что ошибка БД означает проигранную гонку за причал:
// нарушение индекса живых бронирований или сбой сериализации транзакции
func IsBerthConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return pqErr.Constraint == liveBookingIndex
	case pqSerializationFailure:
		return true
	}
	return false
}
