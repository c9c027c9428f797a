package bookings

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/booking"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	"github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MarinaService/internal/service/bookings/models"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
	"github.com/m04kA/SMC-MarinaService/pkg/ptr"
)

// memBookingRepo повторяет условные UPDATE репозитория в памяти
type memBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func (r *memBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) GetByOwnerID(ctx context.Context, ownerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	out := []*domain.Booking{}
	for _, b := range r.bookings {
		if b.OwnerID == ownerID && (status == nil || b.Status == *status) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memBookingRepo) GetByClubWithFilter(ctx context.Context, filter domain.ClubBookingsFilter) ([]*domain.Booking, error) {
	out := []*domain.Booking{}
	for _, b := range r.bookings {
		if b.ClubID != filter.ClubID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Status == nil && !filter.IncludeInactive && !b.IsLive() {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memBookingRepo) UpdateStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) Cancel(ctx context.Context, id int64, reason string) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || !b.CanBeCancelled() {
		return false, nil
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	return true, nil
}

type memPaymentRepo struct {
	payments map[int64][]*domain.Payment
	err      error
}

func (r *memPaymentRepo) GetByBooking(ctx context.Context, bookingID int64) ([]*domain.Payment, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.payments[bookingID], nil
}

type fakeClubRepo struct{ clubs map[int64]*domain.Club }

func (f *fakeClubRepo) GetByID(ctx context.Context, id int64) (*domain.Club, error) {
	if c, ok := f.clubs[id]; ok {
		return c, nil
	}
	return nil, clubRepo.ErrClubNotFound
}

type fakeUsers struct{ roles map[int64]string }

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (*userservice.User, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return &userservice.User{ID: id, Role: role}, nil
}

type recordingPublisher struct{ events []events.Event }

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

const (
	clubOwnerID   = int64(100)
	vesselOwnerID = int64(300)
	adminID       = int64(1)
	strangerID    = int64(200)
)

type testEnv struct {
	svc       *Service
	bookings  *memBookingRepo
	payments  *memPaymentRepo
	publisher *recordingPublisher
}

func newTestEnv() *testEnv {
	bookings := &memBookingRepo{bookings: map[int64]*domain.Booking{
		1: {ID: 1, ClubID: 1, BerthID: 5, OwnerID: vesselOwnerID, Status: domain.StatusPending, TotalPrice: decimal.NewFromInt(30000)},
		2: {ID: 2, ClubID: 1, BerthID: 6, OwnerID: vesselOwnerID, Status: domain.StatusConfirmed},
		3: {ID: 3, ClubID: 1, BerthID: 7, OwnerID: vesselOwnerID, Status: domain.StatusCompleted},
		4: {ID: 4, ClubID: 1, BerthID: 8, OwnerID: strangerID, Status: domain.StatusActive},
	}}
	payments := &memPaymentRepo{payments: map[int64][]*domain.Payment{}}
	clubs := &fakeClubRepo{clubs: map[int64]*domain.Club{1: {ID: 1, OwnerID: clubOwnerID}}}
	users := &fakeUsers{roles: map[int64]string{
		adminID:       domain.RoleAdmin,
		strangerID:    domain.RoleVesselOwner,
		vesselOwnerID: domain.RoleVesselOwner,
	}}
	publisher := &recordingPublisher{}

	return &testEnv{
		svc:       NewService(bookings, payments, clubs, users, publisher, logger.NewNop()),
		bookings:  bookings,
		payments:  payments,
		publisher: publisher,
	}
}

func TestOnPaymentStatusChangedConfirmsWhenRequiredPaid(t *testing.T) {
	env := newTestEnv()
	env.payments.payments[1] = []*domain.Payment{
		{ID: 10, BookingID: 1, Kind: domain.PaymentKindInstallment, Status: domain.PaymentPaid, Required: true},
		{ID: 11, BookingID: 1, Kind: domain.PaymentKindInstallment, Status: domain.PaymentPaid, Required: true},
		// залог не обязателен для подтверждения
		{ID: 12, BookingID: 1, Kind: domain.PaymentKindDeposit, Status: domain.PaymentPending, Required: false},
	}

	confirmed, err := env.svc.OnPaymentStatusChanged(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Equal(t, domain.StatusConfirmed, env.bookings.bookings[1].Status)

	// повторный вызов ничего не меняет и не падает
	confirmed, err = env.svc.OnPaymentStatusChanged(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Equal(t, domain.StatusConfirmed, env.bookings.bookings[1].Status)
}

func TestOnPaymentStatusChangedKeepsPendingWhileUnpaid(t *testing.T) {
	env := newTestEnv()
	env.payments.payments[1] = []*domain.Payment{
		{ID: 10, BookingID: 1, Status: domain.PaymentPaid, Required: true},
		{ID: 11, BookingID: 1, Status: domain.PaymentOverdue, Required: true},
	}

	confirmed, err := env.svc.OnPaymentStatusChanged(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Equal(t, domain.StatusPending, env.bookings.bookings[1].Status)
}

func TestOnPaymentStatusChangedRefundedRequiredPaymentBlocks(t *testing.T) {
	env := newTestEnv()
	env.payments.payments[1] = []*domain.Payment{
		{ID: 10, BookingID: 1, Status: domain.PaymentRefunded, Required: true},
	}

	confirmed, err := env.svc.OnPaymentStatusChanged(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, confirmed)
}

func TestOnPaymentStatusChangedIgnoresNonPending(t *testing.T) {
	env := newTestEnv()
	env.payments.err = errors.New("must not be called")

	for _, id := range []int64{2, 3, 4} {
		confirmed, err := env.svc.OnPaymentStatusChanged(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, confirmed)
	}
}

func TestOnPaymentStatusChangedUnknownBooking(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.OnPaymentStatusChanged(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name      string
		bookingID int64
		userID    int64
		wantErr   error
	}{
		{name: "owner cancels pending", bookingID: 1, userID: vesselOwnerID},
		{name: "club owner cancels confirmed", bookingID: 2, userID: clubOwnerID},
		{name: "admin cancels pending", bookingID: 1, userID: adminID},
		{name: "stranger is denied", bookingID: 1, userID: strangerID, wantErr: ErrAccessDenied},
		{name: "completed cannot be cancelled", bookingID: 3, userID: vesselOwnerID, wantErr: ErrCannotCancel},
		{name: "active cannot be cancelled", bookingID: 4, userID: strangerID, wantErr: ErrCannotCancel},
		{name: "unknown booking", bookingID: 999, userID: vesselOwnerID, wantErr: ErrBookingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			err := env.svc.Cancel(context.Background(), tt.bookingID, &models.CancelBookingRequest{
				UserID:             tt.userID,
				CancellationReason: "планы изменились",
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, env.publisher.events)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, env.bookings.bookings[tt.bookingID].Status)
			require.Len(t, env.publisher.events, 1)
			assert.Equal(t, events.BookingCancelled, env.publisher.events[0].Type)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		bookingID int64
		userID    int64
		status    string
		want      domain.BookingStatus
		wantErr   error
	}{
		{name: "confirmed to active", bookingID: 2, userID: clubOwnerID, status: "active", want: domain.StatusActive},
		{name: "active to completed by admin", bookingID: 4, userID: adminID, status: "completed", want: domain.StatusCompleted},
		{name: "pending to completed is not allowed", bookingID: 1, userID: clubOwnerID, status: "completed", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", bookingID: 3, userID: clubOwnerID, status: "active", wantErr: ErrInvalidTransition},
		{name: "cancel goes through cancel", bookingID: 1, userID: clubOwnerID, status: "cancelled", wantErr: ErrInvalidInput},
		{name: "unknown status", bookingID: 1, userID: clubOwnerID, status: "archived", wantErr: ErrInvalidInput},
		{name: "booking owner is not a manager", bookingID: 2, userID: vesselOwnerID, status: "active", wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			err := env.svc.UpdateStatus(context.Background(), tt.bookingID, &models.UpdateStatusRequest{
				UserID: tt.userID,
				Status: tt.status,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.bookings.bookings[tt.bookingID].Status)
		})
	}
}

func TestGetByIDAccess(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.GetByID(context.Background(), 1, vesselOwnerID)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, []int64{}, resp.AppliedRuleIDs)

	_, err = env.svc.GetByID(context.Background(), 1, clubOwnerID)
	assert.NoError(t, err)

	_, err = env.svc.GetByID(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetUserBookings(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		RequesterID: vesselOwnerID,
		UserID:      vesselOwnerID,
		Status:      ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	_, err = env.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		RequesterID: strangerID,
		UserID:      vesselOwnerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err = env.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		RequesterID: adminID,
		UserID:      vesselOwnerID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)

	_, err = env.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		RequesterID: vesselOwnerID,
		UserID:      vesselOwnerID,
		Status:      ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetClubBookings(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.GetClubBookings(context.Background(), &models.GetClubBookingsRequest{UserID: clubOwnerID, ClubID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 3)

	resp, err = env.svc.GetClubBookings(context.Background(), &models.GetClubBookingsRequest{UserID: clubOwnerID, ClubID: 1, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 4)

	_, err = env.svc.GetClubBookings(context.Background(), &models.GetClubBookingsRequest{UserID: strangerID, ClubID: 1})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.GetClubBookings(context.Background(), &models.GetClubBookingsRequest{UserID: clubOwnerID, ClubID: 42})
	assert.ErrorIs(t, err, ErrClubNotFound)
}
