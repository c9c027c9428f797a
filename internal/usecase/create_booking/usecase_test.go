package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	berthRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/berth"
	bookingRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/booking"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	paymentRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/payment"
	tariffRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/tariff"
	vesselRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/vessel"
	"github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MarinaService/internal/service/pricing"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
	"github.com/m04kA/SMC-MarinaService/pkg/ptr"
)

type fakeBookingRepo struct {
	live      map[int64][]*domain.Booking
	createErr error
	created   []*domain.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	booking.ID = int64(42 + len(f.created))
	f.created = append(f.created, booking)
	return booking, nil
}

func (f *fakeBookingRepo) GetLiveByBerth(ctx context.Context, berthID int64) ([]*domain.Booking, error) {
	return f.live[berthID], nil
}

type fakePaymentRepo struct {
	saved []*domain.Payment
	err   error
}

func (f *fakePaymentRepo) CreateBatch(ctx context.Context, payments []*domain.Payment) ([]*domain.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range payments {
		p.ID = int64(len(f.saved) + 1)
		p.Version = 1
		f.saved = append(f.saved, p)
	}
	return payments, nil
}

type fakeClubRepo struct{ clubs map[int64]*domain.Club }

func (f *fakeClubRepo) GetByID(ctx context.Context, id int64) (*domain.Club, error) {
	if c, ok := f.clubs[id]; ok {
		return c, nil
	}
	return nil, clubRepo.ErrClubNotFound
}

type fakeBerthRepo struct {
	berths map[int64]*domain.Berth
	err    error
}

func (f *fakeBerthRepo) GetByID(ctx context.Context, id int64) (*domain.Berth, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.berths[id]; ok {
		return b, nil
	}
	return nil, berthRepo.ErrBerthNotFound
}

type fakeVesselRepo struct{ vessels map[int64]*domain.Vessel }

func (f *fakeVesselRepo) GetByID(ctx context.Context, id int64) (*domain.Vessel, error) {
	if v, ok := f.vessels[id]; ok {
		return v, nil
	}
	return nil, vesselRepo.ErrVesselNotFound
}

type fakeTariffRepo struct{ tariffs map[int64]*domain.Tariff }

func (f *fakeTariffRepo) GetByID(ctx context.Context, id int64) (*domain.Tariff, error) {
	if t, ok := f.tariffs[id]; ok {
		return t, nil
	}
	return nil, tariffRepo.ErrTariffNotFound
}

type fakeRuleRepo struct{ rules []domain.BookingRule }

func (f *fakeRuleRepo) GetByClub(ctx context.Context, clubID int64, tariffID *int64) ([]domain.BookingRule, error) {
	return f.rules, nil
}

type fakeUsers struct{ roles map[int64]string }

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (*userservice.User, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return &userservice.User{ID: id, Role: role}, nil
}

// fakeTx выполняет fn и возвращает commitErr, как при сбое коммита
type fakeTx struct {
	calls     int
	commitErr error
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return f.commitErr
}

type recordingPublisher struct{ events []events.Event }

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

type recordingMetrics struct {
	created   []string
	conflicts []string
}

func (m *recordingMetrics) IncBookingCreated(tariffType string) {
	m.created = append(m.created, tariffType)
}
func (m *recordingMetrics) IncBookingConflict(stage string) { m.conflicts = append(m.conflicts, stage) }

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

const (
	ownerID  = int64(300)
	adminID  = int64(1)
	otherID  = int64(400)
	clubID   = int64(1)
	berthID  = int64(5)
	vesselID = int64(7)
)

type testEnv struct {
	uc        *UseCase
	bookings  *fakeBookingRepo
	payments  *fakePaymentRepo
	berths    *fakeBerthRepo
	tariffs   *fakeTariffRepo
	rules     *fakeRuleRepo
	tx        *fakeTx
	publisher *recordingPublisher
	metrics   *recordingMetrics
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings: &fakeBookingRepo{live: map[int64][]*domain.Booking{}},
		payments: &fakePaymentRepo{},
		berths: &fakeBerthRepo{berths: map[int64]*domain.Berth{
			berthID: {ID: berthID, ClubID: clubID, IsAvailable: true, TariffIDs: []int64{10, 11}},
			6:       {ID: 6, ClubID: clubID, IsAvailable: true},
			8:       {ID: 8, ClubID: 2, IsAvailable: true},
		}},
		tariffs: &fakeTariffRepo{tariffs: map[int64]*domain.Tariff{
			10: {ID: 10, ClubID: clubID, Type: domain.TariffMonthlyPayment, Amount: decimal.NewFromInt(10000), Months: domain.Months{6, 7, 8}},
			11: {ID: 11, ClubID: clubID, Type: domain.TariffSeasonPayment, Amount: decimal.NewFromInt(150000)},
			12: {ID: 12, ClubID: clubID, Type: domain.TariffMonthlyPayment, Amount: decimal.NewFromInt(10000), Months: domain.Months{1, 2}},
			20: {ID: 20, ClubID: 2, Type: domain.TariffSeasonPayment, Amount: decimal.NewFromInt(1000)},
		}},
		rules:     &fakeRuleRepo{},
		tx:        &fakeTx{},
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
	}

	clubs := &fakeClubRepo{clubs: map[int64]*domain.Club{
		clubID: {
			ID:           clubID,
			OwnerID:      100,
			RentalMonths: domain.Months{5, 6, 7, 8, 9},
			Season:       2025,
			BasePrice:    decimal.NewFromInt(90000),
		},
	}}
	vessels := &fakeVesselRepo{vessels: map[int64]*domain.Vessel{vesselID: {ID: vesselID, OwnerID: ownerID}}}
	users := &fakeUsers{roles: map[int64]string{adminID: domain.RoleAdmin, otherID: domain.RoleVesselOwner}}

	env.uc = NewUseCase(env.bookings, env.payments, clubs, env.berths, vessels, env.tariffs, env.rules,
		users, env.tx, env.publisher, env.metrics, pricing.SchedulePolicy{DueDays: 3}, logger.NewNop())
	env.uc.timeProvider = fixedTime{now: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}

	return env
}

func baseRequest() *Request {
	return &Request{
		UserID:   ownerID,
		ClubID:   clubID,
		BerthID:  berthID,
		VesselID: vesselID,
		TariffID: ptr.Ptr(int64(10)),
	}
}

func depositRule(id int64, amount int64) domain.BookingRule {
	return domain.BookingRule{
		ID:     id,
		ClubID: clubID,
		Type:   domain.RuleRequireDeposit,
		Params: domain.RequireDepositParams{DepositAmount: decimal.NewFromInt(amount)},
	}
}

func TestCreateBookingMonthlyTariff(t *testing.T) {
	env := newTestEnv()
	env.rules.rules = []domain.BookingRule{depositRule(1, 5000)}

	resp, err := env.uc.Execute(context.Background(), baseRequest())
	require.NoError(t, err)

	booking := resp.Booking
	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, ownerID, booking.OwnerID)
	assert.True(t, booking.TotalPrice.Equal(decimal.NewFromInt(35000)), "total %s", booking.TotalPrice)
	assert.True(t, booking.DepositAmount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, []int64{1}, booking.AppliedRuleIDs)

	require.Len(t, resp.Payments, 4)
	for i, month := range []int{6, 7, 8} {
		p := resp.Payments[i]
		assert.Equal(t, domain.PaymentKindInstallment, p.Kind)
		require.NotNil(t, p.Month)
		assert.Equal(t, month, *p.Month)
		assert.Equal(t, time.Date(2025, time.Month(month), 1, 0, 0, 0, 0, time.UTC), p.DueDate)
		assert.True(t, p.Required)
		assert.Equal(t, domain.PaymentPending, p.Status)
	}
	deposit := resp.Payments[3]
	assert.Equal(t, domain.PaymentKindDeposit, deposit.Kind)
	assert.False(t, deposit.Required)
	assert.Equal(t, time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC), deposit.DueDate)

	assert.Equal(t, []string{"monthly_payment"}, env.metrics.created)
	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, events.BookingCreated, env.publisher.events[0].Type)
	assert.Equal(t, "42", env.publisher.events[0].Key)
}

func TestCreateBookingSeasonTariff(t *testing.T) {
	env := newTestEnv()
	req := baseRequest()
	req.TariffID = ptr.Ptr(int64(11))

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Payments, 1)
	assert.Equal(t, domain.PaymentKindSeason, resp.Payments[0].Kind)
	assert.True(t, resp.Payments[0].Amount.Equal(decimal.NewFromInt(150000)))
	assert.Empty(t, resp.Quote.MonthlyBreakdown)
}

func TestCreateBookingBerthWithoutTariffs(t *testing.T) {
	env := newTestEnv()
	req := baseRequest()
	req.BerthID = 6
	req.TariffID = nil

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Booking.TotalPrice.Equal(decimal.NewFromInt(90000)))
	assert.Equal(t, []string{"base_price"}, env.metrics.created)
}

func TestCreateBookingAdminBooksForOwner(t *testing.T) {
	env := newTestEnv()
	req := baseRequest()
	req.UserID = adminID

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, ownerID, resp.Booking.OwnerID)
}

func TestCreateBookingRejected(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(env *testEnv, req *Request)
		wantErr error
	}{
		{
			name:    "stranger's vessel",
			prepare: func(env *testEnv, req *Request) { req.UserID = otherID },
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown vessel",
			prepare: func(env *testEnv, req *Request) { req.VesselID = 99 },
			wantErr: ErrVesselNotFound,
		},
		{
			name:    "unknown club",
			prepare: func(env *testEnv, req *Request) { req.ClubID = 99 },
			wantErr: ErrClubNotFound,
		},
		{
			name:    "berth of another club",
			prepare: func(env *testEnv, req *Request) { req.BerthID = 8 },
			wantErr: ErrBerthNotFound,
		},
		{
			name: "berth disabled by administrator",
			prepare: func(env *testEnv, req *Request) {
				env.berths.berths[berthID].IsAvailable = false
			},
			wantErr: ErrBerthUnavailable,
		},
		{
			name: "berth already has a live booking",
			prepare: func(env *testEnv, req *Request) {
				env.bookings.live[berthID] = []*domain.Booking{{ID: 1, BerthID: berthID, Status: domain.StatusConfirmed}}
			},
			wantErr: domain.ErrBerthAlreadyBooked,
		},
		{
			name:    "tariff selection missing",
			prepare: func(env *testEnv, req *Request) { req.TariffID = nil },
			wantErr: domain.ErrMissingTariffSelection,
		},
		{
			name:    "tariff not linked to berth",
			prepare: func(env *testEnv, req *Request) { req.TariffID = ptr.Ptr(int64(12)) },
			wantErr: ErrTariffNotLinked,
		},
		{
			name: "tariff of another club",
			prepare: func(env *testEnv, req *Request) {
				env.berths.berths[berthID].TariffIDs = []int64{20}
				req.TariffID = ptr.Ptr(int64(20))
			},
			wantErr: ErrTariffNotLinked,
		},
		{
			name: "no chargeable months",
			prepare: func(env *testEnv, req *Request) {
				env.berths.berths[berthID].TariffIDs = []int64{12}
				req.TariffID = ptr.Ptr(int64(12))
			},
			wantErr: domain.ErrPriceableOnlyWhenMonthsNonEmpty,
		},
		{
			name: "period shorter than minimum",
			prepare: func(env *testEnv, req *Request) {
				env.rules.rules = []domain.BookingRule{{
					ID:     3,
					ClubID: clubID,
					Type:   domain.RuleMinBookingPeriod,
					Params: domain.MinBookingPeriodParams{MinPeriod: 100},
				}}
			},
			wantErr: domain.ErrBookingPeriodOutOfRange,
		},
		{
			name: "malformed rule",
			prepare: func(env *testEnv, req *Request) {
				env.rules.rules = []domain.BookingRule{{
					ID:     4,
					ClubID: clubID,
					Type:   domain.RuleRequireDeposit,
					Params: domain.MinBookingPeriodParams{MinPeriod: 1},
				}}
			},
			wantErr: domain.ErrRuleConfiguration,
		},
		{
			name: "only start date",
			prepare: func(env *testEnv, req *Request) {
				req.StartDate = ptr.Ptr(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			req := baseRequest()
			tt.prepare(env, req)

			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.bookings.created)
			assert.Empty(t, env.payments.saved)
			assert.Empty(t, env.publisher.events)
		})
	}
}

func TestCreateBookingExplicitDatesValidated(t *testing.T) {
	env := newTestEnv()
	env.rules.rules = []domain.BookingRule{{
		ID:     3,
		ClubID: clubID,
		Type:   domain.RuleMaxBookingPeriod,
		Params: domain.MaxBookingPeriodParams{MaxPeriod: 30},
	}}

	req := baseRequest()
	req.StartDate = ptr.Ptr(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	req.EndDate = ptr.Ptr(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC))

	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, resp.Booking.AppliedRuleIDs)

	env = newTestEnv()
	env.rules.rules = []domain.BookingRule{{
		ID:     3,
		ClubID: clubID,
		Type:   domain.RuleMaxBookingPeriod,
		Params: domain.MaxBookingPeriodParams{MaxPeriod: 30},
	}}
	req.EndDate = ptr.Ptr(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))

	_, err = env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrBookingPeriodOutOfRange)
}

func TestCreateBookingLostRaceOnInsert(t *testing.T) {
	env := newTestEnv()
	env.bookings.createErr = fmt.Errorf("%w: Create - berth_id=%d: duplicate key", bookingRepo.ErrBerthAlreadyBooked, berthID)

	_, err := env.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, domain.ErrBerthAlreadyBooked)
	assert.Equal(t, []string{"insert"}, env.metrics.conflicts)
	assert.Empty(t, env.publisher.events)
}

func TestCreateBookingSerializationFailureOnCommit(t *testing.T) {
	env := newTestEnv()
	env.tx.commitErr = fmt.Errorf("txmanager: commit transaction: %w", &pq.Error{Code: "40001"})

	_, err := env.uc.Execute(context.Background(), baseRequest())
	assert.ErrorIs(t, err, domain.ErrBerthAlreadyBooked)
	assert.Equal(t, []string{"serialization"}, env.metrics.conflicts)
	assert.Empty(t, env.metrics.created)
	assert.Empty(t, env.publisher.events)
}

func TestCreateBookingSerializationFailureInsideTx(t *testing.T) {
	serializationFailure := &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}

	tests := []struct {
		name  string
		setup func(env *testEnv)
	}{
		{"berth read", func(env *testEnv) {
			env.berths.err = fmt.Errorf("%w: GetByID - scan berth: %w", berthRepo.ErrScanRow, serializationFailure)
		}},
		{"payment schedule insert", func(env *testEnv) {
			env.payments.err = fmt.Errorf("%w: CreateBatch - insert payment for booking_id=42: %w",
				paymentRepo.ErrExecQuery, serializationFailure)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			tt.setup(env)

			_, err := env.uc.Execute(context.Background(), baseRequest())
			assert.ErrorIs(t, err, domain.ErrBerthAlreadyBooked)
			assert.NotErrorIs(t, err, ErrInternal)
			assert.Equal(t, []string{"serialization"}, env.metrics.conflicts)
			assert.Empty(t, env.metrics.created)
			assert.Empty(t, env.publisher.events)
		})
	}
}

func TestCreateBookingCommitFailure(t *testing.T) {
	env := newTestEnv()
	env.tx.commitErr = errors.New("connection reset")

	_, err := env.uc.Execute(context.Background(), baseRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBerthAlreadyBooked)
	assert.Empty(t, env.metrics.conflicts)
}
