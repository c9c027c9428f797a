package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/booking"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	paymentRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/payment"
	userClient "github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
)

// Policy параметры начисления пени
type Policy struct {
	// Ставка пени за день просрочки от суммы платежа
	DailyPenaltyRate decimal.Decimal
}

// Service журнал платежей по бронированиям
//
// Просрочка обновляется лениво при чтении: отдельного планировщика нет.
// Переходы статусов выполняются условными UPDATE с проверкой версии.
type Service struct {
	paymentRepo  PaymentRepository
	bookingRepo  BookingRepository
	clubRepo     ClubRepository
	userClient   UserServiceClient
	notifier     BookingStatusNotifier
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	policy       Policy
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(
	paymentRepo PaymentRepository,
	bookingRepo BookingRepository,
	clubRepo ClubRepository,
	userClient UserServiceClient,
	notifier BookingStatusNotifier,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	policy Policy,
	logger Logger,
) *Service {
	return &Service{
		paymentRepo:  paymentRepo,
		bookingRepo:  bookingRepo,
		clubRepo:     clubRepo,
		userClient:   userClient,
		notifier:     notifier,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		policy:       policy,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает платеж с актуальной просрочкой
// Доступно плательщику, владельцу клуба и администраторам
func (s *Service) GetByID(ctx context.Context, paymentID, userID int64) (*models.PaymentResponse, error) {
	s.logger.Info("GetByID: fetching payment id=%d for user=%d", paymentID, userID)

	payment, err := s.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	booking, err := s.getBooking(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, booking, userID, true); err != nil {
		return nil, err
	}

	payment = s.refreshOverdue(ctx, payment, s.timeProvider.Now())

	s.logger.Info("GetByID: successfully fetched payment id=%d, status=%s", payment.ID, payment.Status)
	return models.FromDomainPayment(payment), nil
}

// GetByBooking получает график платежей бронирования с актуальной просрочкой
// Доступно владельцу бронирования, владельцу клуба и администраторам
func (s *Service) GetByBooking(ctx context.Context, bookingID, userID int64) (*models.PaymentListResponse, error) {
	s.logger.Info("GetByBooking: fetching payments of booking id=%d for user=%d", bookingID, userID)

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, booking, userID, true); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetByBooking: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByBooking - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	for i, payment := range payments {
		payments[i] = s.refreshOverdue(ctx, payment, now)
	}

	s.logger.Info("GetByBooking: successfully fetched %d payments of booking id=%d", len(payments), bookingID)
	return models.FromDomainPaymentList(payments), nil
}

// AreRequiredPaymentsPaid true, если все обязательные платежи бронирования оплачены
func (s *Service) AreRequiredPaymentsPaid(ctx context.Context, bookingID int64) (bool, error) {
	payments, err := s.paymentRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("AreRequiredPaymentsPaid: repository error for booking id=%d: %v", bookingID, err)
		return false, fmt.Errorf("%w: AreRequiredPaymentsPaid - repository error: %v", ErrInternal, err)
	}
	return domain.AreRequiredPaymentsPaid(payments), nil
}

// MarkPaid фиксирует оплату платежа
// Доступно владельцу клуба и администраторам (учётная запись платёжного шлюза).
//
// PENDING/OVERDUE → PAID. Пеня на дату оплаты переносится в settledPenalty.
// Повторный вызов с тем же transactionId ничего не меняет и возвращает текущий платеж.
// В той же транзакции пересчитывается статус бронирования (PENDING → CONFIRMED).
func (s *Service) MarkPaid(ctx context.Context, req *models.MarkPaidRequest) (*models.PaymentResponse, error) {
	s.logger.Info("MarkPaid: payment id=%d, transaction=%s by user=%d", req.PaymentID, req.TransactionID, req.UserID)

	if req.TransactionID == "" || len(req.TransactionID) > domain.MaxTransactionIDLength {
		return nil, fmt.Errorf("%w: transactionId is required and must be at most %d characters",
			ErrInvalidInput, domain.MaxTransactionIDLength)
	}

	payment, err := s.getPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	booking, err := s.getBooking(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	// Оплату подтверждает платёжный шлюз от имени клуба, владелец бронирования этого не может
	if err := s.checkAccess(ctx, booking, req.UserID, false); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	paidDate := now
	if req.PaidDate != nil {
		paidDate = *req.PaidDate
	}
	if paidDate.After(now) {
		return nil, fmt.Errorf("%w: paidDate is in the future", ErrInvalidInput)
	}
	if paidDate.Before(payment.CreatedAt) {
		return nil, fmt.Errorf("%w: paidDate is before the payment was scheduled", ErrInvalidInput)
	}

	var result *domain.Payment
	var changed, confirmed bool

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокировка бронирования выстраивает оплаты его платежей в очередь:
		// следующая транзакция увидит уже оплаченные платежи и подтвердит бронирование
		if _, err := s.lockBooking(txCtx, payment.BookingID); err != nil {
			return err
		}

		current, err := s.getPayment(txCtx, req.PaymentID)
		if err != nil {
			return err
		}

		switch {
		case current.Status == domain.PaymentPaid:
			if current.TransactionID == nil || *current.TransactionID != req.TransactionID {
				s.logger.Warn("MarkPaid: payment id=%d already paid by another transaction", current.ID)
				return ErrAlreadyPaid
			}
			s.logger.Info("MarkPaid: payment id=%d already paid by transaction=%s, nothing to do", current.ID, req.TransactionID)
			result = current

		case !current.Status.CanTransitionTo(domain.PaymentPaid):
			s.logger.Warn("MarkPaid: payment id=%d cannot be paid from status=%s", current.ID, current.Status)
			return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, current.Status, domain.PaymentPaid)

		default:
			settled := current.PenaltyAt(paidDate, s.policy.DailyPenaltyRate)
			ok, err := s.paymentRepo.MarkPaid(txCtx, current.ID, req.TransactionID, paidDate, settled, current.Version)
			if err != nil {
				s.logger.Error("MarkPaid: repository error for payment id=%d: %v", current.ID, err)
				return fmt.Errorf("%w: MarkPaid - repository error: %v", ErrInternal, err)
			}
			if !ok {
				s.logger.Warn("MarkPaid: payment id=%d was modified concurrently", current.ID)
				return ErrPaymentStateConflict
			}

			current.Status = domain.PaymentPaid
			current.Penalty = decimal.Zero
			current.SettledPenalty = settled
			current.TransactionID = &req.TransactionID
			current.PaidDate = &paidDate
			current.Version++
			result = current
			changed = true
		}

		// Пересчёт статуса бронирования идемпотентен, поэтому повтор оплаты
		// догоняет подтверждение, если прошлая попытка на нём упала
		confirmed, err = s.notifier.OnPaymentStatusChanged(txCtx, current.BookingID)
		if err != nil {
			s.logger.Error("MarkPaid: failed to update booking id=%d status: %v", current.BookingID, err)
			return fmt.Errorf("%w: MarkPaid - booking status update: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if changed {
		s.metrics.IncPaymentPaid(string(result.Kind))
		s.publish(ctx, events.PaymentPaid, result)
	}
	if confirmed {
		s.logger.Info("MarkPaid: booking id=%d confirmed after payment id=%d", result.BookingID, result.ID)
		s.metrics.IncBookingConfirmed()
		booking.Status = domain.StatusConfirmed
		event := events.NewEvent(events.BookingConfirmed, strconv.FormatInt(booking.ID, 10), events.BookingPayload{
			BookingID:  booking.ID,
			ClubID:     booking.ClubID,
			BerthID:    booking.BerthID,
			OwnerID:    booking.OwnerID,
			Status:     string(booking.Status),
			TotalPrice: booking.TotalPrice.StringFixed(2),
		})
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("MarkPaid: failed to publish %s for booking id=%d: %v", event.Type, booking.ID, err)
		}
	}

	s.logger.Info("MarkPaid: payment id=%d is paid", result.ID)
	return models.FromDomainPayment(result), nil
}

// MarkRefunded оформляет возврат платежа
// Доступно владельцу клуба и администраторам. Статус бронирования не меняется.
func (s *Service) MarkRefunded(ctx context.Context, req *models.MarkRefundedRequest) (*models.PaymentResponse, error) {
	s.logger.Info("MarkRefunded: payment id=%d by user=%d", req.PaymentID, req.UserID)

	payment, err := s.getPayment(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	booking, err := s.getBooking(ctx, payment.BookingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, booking, req.UserID, false); err != nil {
		return nil, err
	}

	if payment.Status == domain.PaymentRefunded {
		s.logger.Info("MarkRefunded: payment id=%d already refunded, nothing to do", payment.ID)
		return models.FromDomainPayment(payment), nil
	}
	if !payment.Status.CanTransitionTo(domain.PaymentRefunded) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, payment.Status, domain.PaymentRefunded)
	}

	refundedAt := s.timeProvider.Now()
	ok, err := s.paymentRepo.MarkRefunded(ctx, payment.ID, refundedAt, payment.Version)
	if err != nil {
		s.logger.Error("MarkRefunded: repository error for payment id=%d: %v", payment.ID, err)
		return nil, fmt.Errorf("%w: MarkRefunded - repository error: %v", ErrInternal, err)
	}
	if !ok {
		// Проверяем, не оформил ли возврат конкурентный запрос
		current, err := s.getPayment(ctx, payment.ID)
		if err == nil && current.Status == domain.PaymentRefunded {
			return models.FromDomainPayment(current), nil
		}
		s.logger.Warn("MarkRefunded: payment id=%d was modified concurrently", payment.ID)
		return nil, ErrPaymentStateConflict
	}

	payment.Status = domain.PaymentRefunded
	payment.Penalty = decimal.Zero
	payment.RefundedAt = &refundedAt
	payment.Version++

	s.publish(ctx, events.PaymentRefunded, payment)

	s.logger.Info("MarkRefunded: payment id=%d is refunded", payment.ID)
	return models.FromDomainPayment(payment), nil
}

// refreshOverdue переводит просроченный платеж в OVERDUE и пересчитывает пеню
//
// Никогда не возвращает ошибку: если сохранить не удалось, ошибка логируется,
// а вызывающему отдаётся рассчитанное состояние.
func (s *Service) refreshOverdue(ctx context.Context, payment *domain.Payment, now time.Time) *domain.Payment {
	if !payment.Status.IsOutstanding() || !payment.IsPastDue(now) {
		return payment
	}

	penalty := payment.PenaltyAt(now, s.policy.DailyPenaltyRate)
	if payment.Status == domain.PaymentOverdue && payment.Penalty.Equal(penalty) {
		return payment
	}

	refreshed := *payment
	refreshed.Status = domain.PaymentOverdue
	refreshed.Penalty = penalty

	ok, err := s.paymentRepo.MarkOverdue(ctx, payment.ID, penalty, payment.Version)
	if err != nil {
		s.logger.Error("refreshOverdue: failed to persist overdue payment id=%d: %v", payment.ID, err)
		return &refreshed
	}
	if !ok {
		// Платеж изменился между чтением и обновлением: отдаём свежую версию
		current, err := s.paymentRepo.GetByID(ctx, payment.ID)
		if err != nil {
			s.logger.Warn("refreshOverdue: failed to re-read payment id=%d: %v", payment.ID, err)
			return &refreshed
		}
		return current
	}

	refreshed.Version++
	if payment.Status == domain.PaymentPending {
		s.logger.Info("refreshOverdue: payment id=%d is overdue by %d days, penalty=%s",
			payment.ID, payment.DaysOverdue(now), penalty.StringFixed(2))
		s.metrics.IncPaymentOverdue()
		s.publish(ctx, events.PaymentOverdue, &refreshed)
	}
	return &refreshed
}

// Вспомогательные методы

func (s *Service) publish(ctx context.Context, eventType events.Type, payment *domain.Payment) {
	event := events.NewEvent(eventType, strconv.FormatInt(payment.BookingID, 10), events.PaymentPayload{
		PaymentID:     payment.ID,
		BookingID:     payment.BookingID,
		Status:        string(payment.Status),
		Amount:        payment.Amount.StringFixed(2),
		Penalty:       payment.Penalty.StringFixed(2),
		TransactionID: payment.TransactionID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish %s for payment id=%d: %v", eventType, payment.ID, err)
	}
}

func (s *Service) getPayment(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("payment id=%d not found", paymentID)
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("failed to get payment id=%d: %v", paymentID, err)
		return nil, fmt.Errorf("%w: failed to get payment: %v", ErrInternal, err)
	}
	return payment, nil
}

func (s *Service) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("failed to get booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

func (s *Service) lockBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByIDForUpdate(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		s.logger.Error("failed to lock booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: failed to lock booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// checkAccess пропускает владельца клуба и администраторов,
// а при allowOwner ещё и владельца бронирования
func (s *Service) checkAccess(ctx context.Context, booking *domain.Booking, userID int64, allowOwner bool) error {
	if allowOwner && booking.IsOwnedBy(userID) {
		return nil
	}

	club, err := s.clubRepo.GetByID(ctx, booking.ClubID)
	if err != nil && !errors.Is(err, clubRepo.ErrClubNotFound) {
		s.logger.Error("failed to get club id=%d: %v", booking.ClubID, err)
		return fmt.Errorf("%w: failed to get club: %v", ErrInternal, err)
	}
	if club != nil && club.IsManagedBy(userID) {
		return nil
	}

	user, err := s.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("user id=%d not found", userID)
			return ErrAccessDenied
		}
		s.logger.Error("failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if user.Role == domain.RoleAdmin {
		return nil
	}

	s.logger.Warn("user=%d has no access to booking id=%d", userID, booking.ID)
	return ErrAccessDenied
}
