package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/booking"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	userClient "github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MarinaService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	paymentRepo PaymentRepository
	clubRepo    ClubRepository
	userClient  UserServiceClient
	publisher   EventPublisher
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	clubRepo ClubRepository,
	userClient UserServiceClient,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		clubRepo:    clubRepo,
		userClient:  userClient,
		publisher:   publisher,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование,
// если он не владелец клуба и не администратор
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу. Чужую историю видят только администраторы.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d by user=%d, status=%v", req.UserID, req.RequesterID, req.Status)

	if req.RequesterID != req.UserID {
		if err := s.checkAdmin(ctx, req.RequesterID); err != nil {
			s.logger.Warn("GetUserBookings: user=%d is not allowed to see bookings of user=%d", req.RequesterID, req.UserID)
			return nil, err
		}
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByOwnerID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetClubBookings получает бронирования клуба с фильтрацией
// Поддерживает фильтрацию по причалу, статусу и включению завершённых бронирований
// Доступно только владельцу клуба и администраторам
func (s *Service) GetClubBookings(ctx context.Context, req *models.GetClubBookingsRequest) (*models.BookingListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetClubBookings: fetching bookings for club=%d, user=%d", req.ClubID, req.UserID)
	if req.BerthID != nil {
		logMsg += fmt.Sprintf(", berth=%d", *req.BerthID)
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info("%s", logMsg)

	// Проверяем права доступа
	if err := s.checkManagerAccess(ctx, req.ClubID, req.UserID); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetClubBookings: invalid filter for club=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByClubWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetClubBookings: repository error for club=%d: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: GetClubBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClubBookings: successfully fetched %d bookings for club=%d", len(bookings), req.ClubID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отменить может владелец бронирования, владелец клуба или администратор
// Платежи при отмене автоматически не возвращаются
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if len([]rune(req.CancellationReason)) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.checkUserAccess(ctx, booking, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
		return err
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	cancelled, err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason)
	if err != nil {
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}
	if !cancelled {
		// Статус успел измениться после чтения
		s.logger.Warn("Cancel: booking id=%d changed status concurrently", bookingID)
		return ErrCannotCancel
	}

	booking.Status = domain.StatusCancelled
	s.publish(ctx, events.BookingCancelled, booking)

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus административно переводит бронирование по машине состояний
// (CONFIRMED → ACTIVE, ACTIVE → COMPLETED, PENDING → CONFIRMED)
// Доступно только владельцу клуба и администраторам. Отмена выполняется через Cancel.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if newStatus == domain.StatusCancelled {
		return fmt.Errorf("%w: use cancel to cancel a booking", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	// Проверяем права доступа (только владелец клуба или администратор)
	if err := s.checkManagerAccess(ctx, booking.ClubID, req.UserID); err != nil {
		return err
	}

	if !booking.Status.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: booking id=%d cannot move %s → %s", bookingID, booking.Status, newStatus)
		return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingID, []domain.BookingStatus{booking.Status}, newStatus)
	if err != nil {
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}
	if !updated {
		s.logger.Warn("UpdateStatus: booking id=%d changed status concurrently", bookingID)
		return fmt.Errorf("%w: booking status changed concurrently", ErrInvalidTransition)
	}

	booking.Status = newStatus
	s.publish(ctx, events.BookingStatusChanged, booking)

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// OnPaymentStatusChanged подтверждает бронирование, когда все обязательные платежи оплачены
//
// Единственный автоматический переход: PENDING → CONFIRMED. Для бронирования в любом
// другом статусе вызов ничего не делает и не считается ошибкой. Обновление условное
// (WHERE status = 'pending'), поэтому конкурентные вызовы подтверждают бронирование один раз.
// Возвращает true, если этот вызов перевёл бронирование в CONFIRMED.
func (s *Service) OnPaymentStatusChanged(ctx context.Context, bookingID int64) (bool, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}

	if booking.Status != domain.StatusPending {
		return false, nil
	}

	payments, err := s.paymentRepo.GetByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("OnPaymentStatusChanged: repository error for booking id=%d: %v", bookingID, err)
		return false, fmt.Errorf("%w: OnPaymentStatusChanged - repository error: %v", ErrInternal, err)
	}

	if !domain.AreRequiredPaymentsPaid(payments) {
		return false, nil
	}

	confirmed, err := s.bookingRepo.UpdateStatus(ctx, bookingID,
		[]domain.BookingStatus{domain.StatusPending}, domain.StatusConfirmed)
	if err != nil {
		s.logger.Error("OnPaymentStatusChanged: repository error for booking id=%d: %v", bookingID, err)
		return false, fmt.Errorf("%w: OnPaymentStatusChanged - repository error: %v", ErrInternal, err)
	}

	if confirmed {
		s.logger.Info("OnPaymentStatusChanged: booking id=%d confirmed", bookingID)
	}
	return confirmed, nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("failed to get booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

func (s *Service) publish(ctx context.Context, eventType events.Type, booking *domain.Booking) {
	event := events.NewEvent(eventType, strconv.FormatInt(booking.ID, 10), events.BookingPayload{
		BookingID:  booking.ID,
		ClubID:     booking.ClubID,
		BerthID:    booking.BerthID,
		OwnerID:    booking.OwnerID,
		Status:     string(booking.Status),
		TotalPrice: booking.TotalPrice.StringFixed(2),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish %s for booking id=%d: %v", eventType, booking.ID, err)
	}
}

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Пользователь может работать со своим бронированием, владелец клуба и администратор - с любым
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	// Если пользователь владелец бронирования - доступ разрешён
	if booking.IsOwnedBy(userID) {
		return nil
	}

	if err := s.checkManagerAccess(ctx, booking.ClubID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		// Ошибка уже залогирована в checkManagerAccess
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь владелец клуба или администратор
func (s *Service) checkManagerAccess(ctx context.Context, clubID int64, userID int64) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, clubRepo.ErrClubNotFound) {
			s.logger.Warn("checkManagerAccess: club id=%d not found", clubID)
			return ErrClubNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get club id=%d: %v", clubID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get club: %v", ErrInternal, err)
	}

	if club.IsManagedBy(userID) {
		return nil
	}

	return s.checkAdmin(ctx, userID)
}

// checkAdmin проверяет роль пользователя через UserService
func (s *Service) checkAdmin(ctx context.Context, userID int64) error {
	user, err := s.userClient.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("checkAdmin: user id=%d not found", userID)
			return ErrAccessDenied
		}
		s.logger.Error("checkAdmin: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkAdmin - failed to get user: %v", ErrInternal, err)
	}

	if user.Role == domain.RoleAdmin {
		return nil
	}

	s.logger.Warn("checkAdmin: user=%d is not an admin", userID)
	return ErrAccessDenied
}
