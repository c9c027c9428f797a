package get_price_quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	berthRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/berth"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	tariffRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/tariff"
	"github.com/m04kA/SMC-MarinaService/internal/service/pricing"
	"github.com/m04kA/SMC-MarinaService/internal/service/rules"
)

// UseCase use case для расчёта котировки бронирования причала
// Котировка считается при каждом запросе и нигде не кэшируется
type UseCase struct {
	clubRepo   ClubRepository
	berthRepo  BerthRepository
	tariffRepo TariffRepository
	ruleRepo   RuleRepository
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	clubRepo ClubRepository,
	berthRepo BerthRepository,
	tariffRepo TariffRepository,
	ruleRepo RuleRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		clubRepo:   clubRepo,
		berthRepo:  berthRepo,
		tariffRepo: tariffRepo,
		ruleRepo:   ruleRepo,
		logger:     logger,
	}
}

// Execute выполняет use case получения котировки
// Неоплачиваемая комбинация (пустой набор месяцев) не ошибка: котировка возвращается с Priceable = false
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetPriceQuote: club=%d, berth=%d", req.ClubID, req.BerthID)

	if req.ClubID <= 0 || req.BerthID <= 0 {
		return nil, fmt.Errorf("%w: clubId and berthId must be positive", ErrInvalidInput)
	}
	if req.TariffID != nil && *req.TariffID <= 0 {
		return nil, fmt.Errorf("%w: tariffId must be positive", ErrInvalidInput)
	}

	club, err := uc.clubRepo.GetByID(ctx, req.ClubID)
	if err != nil {
		if errors.Is(err, clubRepo.ErrClubNotFound) {
			uc.logger.Warn("GetPriceQuote: club id=%d not found", req.ClubID)
			return nil, ErrClubNotFound
		}
		uc.logger.Error("GetPriceQuote: failed to get club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get club: %v", ErrInternal, err)
	}

	berth, err := uc.berthRepo.GetByID(ctx, req.BerthID)
	if err != nil {
		if errors.Is(err, berthRepo.ErrBerthNotFound) {
			uc.logger.Warn("GetPriceQuote: berth id=%d not found", req.BerthID)
			return nil, ErrBerthNotFound
		}
		uc.logger.Error("GetPriceQuote: failed to get berth id=%d: %v", req.BerthID, err)
		return nil, fmt.Errorf("%w: failed to get berth: %v", ErrInternal, err)
	}
	if berth.ClubID != club.ID {
		return nil, ErrBerthNotFound
	}

	tariff, err := uc.getTariff(ctx, club, berth, req.TariffID)
	if err != nil {
		return nil, err
	}

	clubRules, err := uc.ruleRepo.GetByClub(ctx, club.ID, req.TariffID)
	if err != nil {
		var cfgErr *domain.RuleConfigurationError
		if errors.As(err, &cfgErr) {
			uc.logger.Error("GetPriceQuote: malformed rule id=%d: %v", cfgErr.RuleID, err)
			return nil, err
		}
		uc.logger.Error("GetPriceQuote: failed to get rules of club id=%d: %v", club.ID, err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	resolved, err := rules.ResolveRules(club, tariff, clubRules)
	if err != nil {
		uc.logger.Error("GetPriceQuote: failed to resolve rules of club id=%d: %v", club.ID, err)
		return nil, err
	}

	quote := pricing.ComputePrice(club, berth, tariff, resolved)

	uc.logger.Info("GetPriceQuote: club=%d, berth=%d, total=%s, priceable=%t",
		club.ID, berth.ID, quote.TotalPrice.StringFixed(2), quote.Priceable)

	return &Response{
		ClubID:       club.ID,
		BerthID:      berth.ID,
		TariffID:     req.TariffID,
		DurationDays: pricing.RequestedDuration(club, quote, nil, nil),
		Quote:        quote,
	}, nil
}

// getTariff проверяет выбор тарифа и загружает его
// Для причала с тарифами выбор обязателен, для причала без тарифов возвращается nil
func (uc *UseCase) getTariff(ctx context.Context, club *domain.Club, berth *domain.Berth, tariffID *int64) (*domain.Tariff, error) {
	if tariffID == nil {
		if berth.HasTariffs() {
			return nil, domain.ErrMissingTariffSelection
		}
		return nil, nil
	}
	if !berth.HasTariff(*tariffID) {
		return nil, fmt.Errorf("%w: tariff id=%d is not linked to berth id=%d", ErrTariffNotLinked, *tariffID, berth.ID)
	}

	tariff, err := uc.tariffRepo.GetByID(ctx, *tariffID)
	if err != nil {
		if errors.Is(err, tariffRepo.ErrTariffNotFound) {
			return nil, ErrTariffNotFound
		}
		uc.logger.Error("GetPriceQuote: failed to get tariff id=%d: %v", *tariffID, err)
		return nil, fmt.Errorf("%w: failed to get tariff: %v", ErrInternal, err)
	}
	if tariff.ClubID != club.ID {
		return nil, fmt.Errorf("%w: tariff id=%d belongs to another club", ErrTariffNotLinked, tariff.ID)
	}
	return tariff, nil
}
