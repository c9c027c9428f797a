package pricing

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

// ValidatePeriod проверяет длительность бронирования в днях
//
// Границы берутся из правил MIN/MAX_BOOKING_PERIOD, а при их отсутствии из
// настроек клуба. Обе границы включительные.
func ValidatePeriod(durationDays int, resolved *domain.ResolvedRules, club *domain.Club) error {
	minPeriod, maxPeriod := club.MinRentalPeriod, club.MaxRentalPeriod
	if resolved != nil {
		if resolved.MinPeriod != nil {
			minPeriod = resolved.MinPeriod
		}
		if resolved.MaxPeriod != nil {
			maxPeriod = resolved.MaxPeriod
		}
	}

	if minPeriod != nil && durationDays < *minPeriod {
		return fmt.Errorf("%w: %d days is shorter than the minimum of %d", domain.ErrBookingPeriodOutOfRange, durationDays, *minPeriod)
	}
	if maxPeriod != nil && durationDays > *maxPeriod {
		return fmt.Errorf("%w: %d days is longer than the maximum of %d", domain.ErrBookingPeriodOutOfRange, durationDays, *maxPeriod)
	}
	return nil
}

// RequestedDuration длительность бронирования в днях
//
// Если даты начала и окончания заданы, считается включительно по календарным датам.
// Иначе длительность выводится из котировки: сумма дней оплачиваемых месяцев для
// помесячного тарифа, либо навигационный сезон клуба (весь год, если месяцы не ограничены).
func RequestedDuration(club *domain.Club, quote *domain.PriceQuote, startDate, endDate *time.Time) int {
	if startDate != nil && endDate != nil {
		start := calendarDate(*startDate)
		end := calendarDate(*endDate)
		return int(end.Sub(start).Hours()/24) + 1
	}

	months := quote.ChargeableMonths()
	if len(months) == 0 {
		months = club.RentalMonths
	}
	if len(months) == 0 {
		months = domain.Months{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	}

	days := 0
	for _, month := range months {
		days += daysIn(club.Season, month)
	}
	return days
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
