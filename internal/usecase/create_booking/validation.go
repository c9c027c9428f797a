package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
)

// validateRequest проверяет входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}
	if req.ClubID <= 0 {
		return fmt.Errorf("%w: clubId must be positive", ErrInvalidInput)
	}
	if req.BerthID <= 0 {
		return fmt.Errorf("%w: berthId must be positive", ErrInvalidInput)
	}
	if req.VesselID <= 0 {
		return fmt.Errorf("%w: vesselId must be positive", ErrInvalidInput)
	}
	if req.TariffID != nil && *req.TariffID <= 0 {
		return fmt.Errorf("%w: tariffId must be positive", ErrInvalidInput)
	}

	if (req.StartDate == nil) != (req.EndDate == nil) {
		return fmt.Errorf("%w: startDate and endDate must be set together", ErrInvalidInput)
	}
	if req.StartDate != nil && req.EndDate.Before(*req.StartDate) {
		return fmt.Errorf("%w: endDate %s is before startDate %s", ErrInvalidInput,
			req.EndDate.Format(domain.DateFormat), req.StartDate.Format(domain.DateFormat))
	}

	return nil
}

// validateTariffSelection проверяет выбор тарифа для причала
// Если к причалу привязаны тарифы, тариф обязателен и должен быть одним из них
func validateTariffSelection(berth *domain.Berth, tariffID *int64) error {
	if tariffID == nil {
		if berth.HasTariffs() {
			return domain.ErrMissingTariffSelection
		}
		return nil
	}

	if !berth.HasTariff(*tariffID) {
		return fmt.Errorf("%w: tariff id=%d is not linked to berth id=%d", ErrTariffNotLinked, *tariffID, berth.ID)
	}
	return nil
}

// tariffTypeLabel метка тарифа для метрик
func tariffTypeLabel(tariff *domain.Tariff) string {
	if tariff == nil {
		return "base_price"
	}
	return string(tariff.Type)
}
