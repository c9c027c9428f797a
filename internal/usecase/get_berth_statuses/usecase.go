package get_berth_statuses

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
)

// UseCase use case для получения состояния причалов клуба
type UseCase struct {
	clubRepo    ClubRepository
	berthRepo   BerthRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	clubRepo ClubRepository,
	berthRepo BerthRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		clubRepo:    clubRepo,
		berthRepo:   berthRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute выполняет use case получения состояния причалов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetBerthStatuses: club=%d", req.ClubID)

	if req.ClubID <= 0 {
		return nil, fmt.Errorf("%w: clubId must be positive", ErrInvalidInput)
	}

	// 1. Проверяем существование клуба
	if _, err := uc.clubRepo.GetByID(ctx, req.ClubID); err != nil {
		if errors.Is(err, clubRepo.ErrClubNotFound) {
			uc.logger.Warn("GetBerthStatuses: club id=%d not found", req.ClubID)
			return nil, ErrClubNotFound
		}
		uc.logger.Error("GetBerthStatuses: failed to get club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get club: %v", ErrInternal, err)
	}

	// 2. Получаем причалы клуба
	berths, err := uc.berthRepo.GetByClub(ctx, req.ClubID)
	if err != nil {
		uc.logger.Error("GetBerthStatuses: failed to get berths of club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get berths: %v", ErrInternal, err)
	}

	// 3. Получаем живые бронирования клуба
	bookings, err := uc.bookingRepo.GetByClubWithFilter(ctx, domain.ClubBookingsFilter{ClubID: req.ClubID})
	if err != nil {
		uc.logger.Error("GetBerthStatuses: failed to get bookings of club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 4. Сопоставляем причалы и бронирования
	statuses, available := buildStatuses(berths, bookings)

	uc.logger.Info("GetBerthStatuses: club=%d, berths=%d, available=%d", req.ClubID, len(statuses), available)

	return &Response{
		ClubID:    req.ClubID,
		Berths:    statuses,
		Available: available,
	}, nil
}
