package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	berthRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/berth"
	bookingRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/booking"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	tariffRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/tariff"
	vesselRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/vessel"
	userClient "github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MarinaService/internal/service/availability"
	"github.com/m04kA/SMC-MarinaService/internal/service/pricing"
	"github.com/m04kA/SMC-MarinaService/internal/service/rules"
	"github.com/m04kA/SMC-MarinaService/pkg/tracing"
)

// UseCase use case для создания бронирования причала
type UseCase struct {
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	clubRepo     ClubRepository
	berthRepo    BerthRepository
	vesselRepo   VesselRepository
	tariffRepo   TariffRepository
	ruleRepo     RuleRepository
	userClient   UserServiceClient
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	policy       pricing.SchedulePolicy
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	clubRepo ClubRepository,
	berthRepo BerthRepository,
	vesselRepo VesselRepository,
	tariffRepo TariffRepository,
	ruleRepo RuleRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	policy pricing.SchedulePolicy,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		clubRepo:     clubRepo,
		berthRepo:    berthRepo,
		vesselRepo:   vesselRepo,
		tariffRepo:   tariffRepo,
		ruleRepo:     ruleRepo,
		userClient:   userClient,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
//
// Проверка доступности, расчёт цены и запись бронирования с графиком платежей
// выполняются в одной сериализуемой транзакции под блокировкой строки причала.
// Если конкурентный запрос всё же успел занять причал, уникальный индекс живых
// бронирований отклоняет вставку и клиент получает ErrBerthAlreadyBooked.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (_ *Response, err error) {
	ctx, span := tracing.Tracer("usecase.create_booking").Start(ctx, "CreateBooking")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.Int64("club.id", req.ClubID),
		attribute.Int64("berth.id", req.BerthID),
		attribute.Int64("vessel.id", req.VesselID),
	)

	uc.logger.Info("CreateBooking: user=%d, club=%d, berth=%d, vessel=%d, tariff=%s",
		req.UserID, req.ClubID, req.BerthID, req.VesselID, tariffIDString(req.TariffID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Судно должно принадлежать пользователю (администратор бронирует от имени владельца)
	vessel, err := uc.vesselRepo.GetByID(ctx, req.VesselID)
	if err != nil {
		if errors.Is(err, vesselRepo.ErrVesselNotFound) {
			uc.logger.Warn("CreateBooking: vessel id=%d not found", req.VesselID)
			return nil, ErrVesselNotFound
		}
		uc.logger.Error("CreateBooking: failed to get vessel id=%d: %v", req.VesselID, err)
		return nil, fmt.Errorf("%w: failed to get vessel: %v", ErrInternal, err)
	}
	if err := uc.checkVesselAccess(ctx, vessel, req.UserID); err != nil {
		return nil, err
	}

	// 4. Получаем клуб
	club, err := uc.clubRepo.GetByID(ctx, req.ClubID)
	if err != nil {
		if errors.Is(err, clubRepo.ErrClubNotFound) {
			uc.logger.Warn("CreateBooking: club id=%d not found", req.ClubID)
			return nil, ErrClubNotFound
		}
		uc.logger.Error("CreateBooking: failed to get club id=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: failed to get club: %v", ErrInternal, err)
	}

	var result Response
	var tariffType string

	// 5. Проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем причал с блокировкой строки (FOR UPDATE)
		berth, err := uc.berthRepo.GetByID(txCtx, req.BerthID)
		if err != nil {
			if errors.Is(err, berthRepo.ErrBerthNotFound) {
				uc.logger.Warn("CreateBooking: berth id=%d not found", req.BerthID)
				return ErrBerthNotFound
			}
			uc.logger.Error("CreateBooking: failed to get berth id=%d: %v", req.BerthID, err)
			return fmt.Errorf("%w: failed to get berth: %w", ErrInternal, err)
		}
		if berth.ClubID != club.ID {
			uc.logger.Warn("CreateBooking: berth id=%d belongs to club id=%d, not %d", berth.ID, berth.ClubID, club.ID)
			return ErrBerthNotFound
		}

		// 5.2. Проверяем доступность причала
		if !berth.IsAvailable {
			uc.logger.Warn("CreateBooking: berth id=%d is disabled by administrator", berth.ID)
			return ErrBerthUnavailable
		}
		live, err := uc.bookingRepo.GetLiveByBerth(txCtx, berth.ID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBerthAlreadyBooked) {
				uc.logger.Warn("CreateBooking: berth id=%d is locked by a concurrent booking", berth.ID)
				uc.metrics.IncBookingConflict("check")
				return domain.ErrBerthAlreadyBooked
			}
			uc.logger.Error("CreateBooking: failed to get live bookings of berth id=%d: %v", berth.ID, err)
			return fmt.Errorf("%w: failed to get live bookings: %w", ErrInternal, err)
		}
		if !availability.IsBookable(berth, live) {
			uc.logger.Warn("CreateBooking: berth id=%d already has a live booking", berth.ID)
			uc.metrics.IncBookingConflict("check")
			return domain.ErrBerthAlreadyBooked
		}

		// 5.3. Проверяем выбор тарифа
		if err := validateTariffSelection(berth, req.TariffID); err != nil {
			uc.logger.Warn("CreateBooking: tariff selection rejected: %v", err)
			return err
		}
		var tariff *domain.Tariff
		if req.TariffID != nil {
			tariff, err = uc.tariffRepo.GetByID(txCtx, *req.TariffID)
			if err != nil {
				if errors.Is(err, tariffRepo.ErrTariffNotFound) {
					uc.logger.Warn("CreateBooking: tariff id=%d not found", *req.TariffID)
					return ErrTariffNotFound
				}
				uc.logger.Error("CreateBooking: failed to get tariff id=%d: %v", *req.TariffID, err)
				return fmt.Errorf("%w: failed to get tariff: %w", ErrInternal, err)
			}
			if tariff.ClubID != club.ID {
				uc.logger.Warn("CreateBooking: tariff id=%d belongs to club id=%d", tariff.ID, tariff.ClubID)
				return fmt.Errorf("%w: tariff id=%d belongs to another club", ErrTariffNotLinked, tariff.ID)
			}
		}

		// 5.4. Разрешаем правила и считаем цену
		clubRules, err := uc.ruleRepo.GetByClub(txCtx, club.ID, req.TariffID)
		if err != nil {
			var cfgErr *domain.RuleConfigurationError
			if errors.As(err, &cfgErr) {
				uc.logger.Error("CreateBooking: malformed rule id=%d: %v", cfgErr.RuleID, err)
				return err
			}
			uc.logger.Error("CreateBooking: failed to get rules of club id=%d: %v", club.ID, err)
			return fmt.Errorf("%w: failed to get rules: %w", ErrInternal, err)
		}

		resolved, err := rules.ResolveRules(club, tariff, clubRules)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to resolve rules of club id=%d: %v", club.ID, err)
			return err
		}

		quote := pricing.ComputePrice(club, berth, tariff, resolved)
		if !quote.Priceable {
			uc.logger.Warn("CreateBooking: tariff id=%s has no chargeable months in club id=%d",
				tariffIDString(req.TariffID), club.ID)
			return domain.ErrPriceableOnlyWhenMonthsNonEmpty
		}

		// 5.5. Проверяем длительность аренды
		duration := pricing.RequestedDuration(club, quote, req.StartDate, req.EndDate)
		if err := pricing.ValidatePeriod(duration, resolved, club); err != nil {
			uc.logger.Warn("CreateBooking: period validation failed: %v", err)
			return err
		}

		// 5.6. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ClubID:         club.ID,
			BerthID:        berth.ID,
			VesselID:       vessel.ID,
			OwnerID:        vessel.OwnerID,
			TariffID:       req.TariffID,
			Status:         domain.StatusPending,
			TotalPrice:     quote.TotalPrice,
			DepositAmount:  quote.DepositAmount,
			AutoRenewal:    req.AutoRenewal,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
			AppliedRuleIDs: quote.AppliedRuleIDs,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBerthAlreadyBooked) {
				uc.logger.Warn("CreateBooking: berth id=%d was taken concurrently", berth.ID)
				uc.metrics.IncBookingConflict("insert")
				return domain.ErrBerthAlreadyBooked
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 5.7. Сохраняем график платежей
		payments, err := uc.paymentRepo.CreateBatch(txCtx, pricing.BuildSchedule(created, club, quote, now, uc.policy))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create payments of booking id=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to create payments: %w", ErrInternal, err)
		}

		result = Response{Booking: created, Quote: quote, Payments: payments}
		tariffType = tariffTypeLabel(tariff)
		return nil
	})

	if err != nil {
		// Сбой сериализации на любом шаге транзакции или при коммите означает проигранную гонку за причал
		if !errors.Is(err, domain.ErrBerthAlreadyBooked) && bookingRepo.IsBerthConflict(err) {
			uc.logger.Warn("CreateBooking: serialization conflict on berth id=%d: %v", req.BerthID, err)
			uc.metrics.IncBookingConflict("serialization")
			return nil, domain.ErrBerthAlreadyBooked
		}
		return nil, err
	}

	booking := result.Booking
	uc.metrics.IncBookingCreated(tariffType)
	uc.publishCreated(ctx, booking)

	span.SetAttributes(attribute.Int64("booking.id", booking.ID))
	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%s, payments=%d",
		booking.ID, booking.TotalPrice.StringFixed(2), len(result.Payments))

	return &result, nil
}

// checkVesselAccess бронировать может владелец судна или администратор
func (uc *UseCase) checkVesselAccess(ctx context.Context, vessel *domain.Vessel, userID int64) error {
	if vessel.OwnerID == userID {
		return nil
	}

	user, err := uc.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: user id=%d not found", userID)
			return ErrAccessDenied
		}
		uc.logger.Error("CreateBooking: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if user.Role == domain.RoleAdmin {
		return nil
	}

	uc.logger.Warn("CreateBooking: user=%d does not own vessel id=%d", userID, vessel.ID)
	return ErrAccessDenied
}

func (uc *UseCase) publishCreated(ctx context.Context, booking *domain.Booking) {
	event := events.NewEvent(events.BookingCreated, strconv.FormatInt(booking.ID, 10), events.BookingPayload{
		BookingID:  booking.ID,
		ClubID:     booking.ClubID,
		BerthID:    booking.BerthID,
		OwnerID:    booking.OwnerID,
		Status:     string(booking.Status),
		TotalPrice: booking.TotalPrice.StringFixed(2),
	})
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s for booking id=%d: %v", event.Type, booking.ID, err)
	}
}

func tariffIDString(id *int64) string {
	if id == nil {
		return "none"
	}
	return strconv.FormatInt(*id, 10)
}
