package rules

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	ruleRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/rule"
	tariffRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/tariff"
	"github.com/m04kA/SMC-MarinaService/internal/integrations/userservice"
	"github.com/m04kA/SMC-MarinaService/internal/service/rules/models"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
	"github.com/m04kA/SMC-MarinaService/pkg/ptr"
)

type mockRuleRepo struct{ mock.Mock }

func (m *mockRuleRepo) Create(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error) {
	args := m.Called(ctx, rule)
	if r := args.Get(0); r != nil {
		return r.(*domain.BookingRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRuleRepo) GetByClub(ctx context.Context, clubID int64, tariffID *int64) ([]domain.BookingRule, error) {
	args := m.Called(ctx, clubID, tariffID)
	if r := args.Get(0); r != nil {
		return r.([]domain.BookingRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRuleRepo) Delete(ctx context.Context, clubID, ruleID int64) error {
	return m.Called(ctx, clubID, ruleID).Error(0)
}

type fakeClubRepo struct{ clubs map[int64]*domain.Club }

func (f *fakeClubRepo) GetByID(ctx context.Context, id int64) (*domain.Club, error) {
	if c, ok := f.clubs[id]; ok {
		return c, nil
	}
	return nil, clubRepo.ErrClubNotFound
}

type fakeTariffRepo struct{ tariffs map[int64]*domain.Tariff }

func (f *fakeTariffRepo) GetByID(ctx context.Context, id int64) (*domain.Tariff, error) {
	if t, ok := f.tariffs[id]; ok {
		return t, nil
	}
	return nil, tariffRepo.ErrTariffNotFound
}

type fakeUsers struct{ roles map[int64]string }

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (*userservice.User, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return &userservice.User{ID: id, Role: role}, nil
}

const (
	ownerID = int64(100)
	adminID = int64(1)
	otherID = int64(200)
)

func newTestService(repo *mockRuleRepo) *Service {
	clubs := &fakeClubRepo{clubs: map[int64]*domain.Club{1: {ID: 1, OwnerID: ownerID}}}
	tariffs := &fakeTariffRepo{tariffs: map[int64]*domain.Tariff{
		10: {ID: 10, ClubID: 1},
		20: {ID: 20, ClubID: 2},
	}}
	users := &fakeUsers{roles: map[int64]string{adminID: domain.RoleAdmin, otherID: domain.RoleVesselOwner}}
	return NewService(repo, clubs, tariffs, users, logger.NewNop())
}

func TestCreateRule(t *testing.T) {
	repo := &mockRuleRepo{}
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.BookingRule) bool {
		p, ok := r.Params.(domain.RequirePaymentMonthsParams)
		return ok && r.ClubID == 1 && *r.TariffID == 10 && assert.ObjectsAreEqual(domain.Months{7}, p.Months)
	})).Return(&domain.BookingRule{
		ID: 5, ClubID: 1, TariffID: ptr.Ptr(int64(10)),
		Type: domain.RuleRequirePaymentMonths, Params: domain.RequirePaymentMonthsParams{Months: domain.Months{7}},
	}, nil)

	resp, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:     ownerID,
		ClubID:     1,
		TariffID:   ptr.Ptr(int64(10)),
		RuleType:   string(domain.RuleRequirePaymentMonths),
		Parameters: json.RawMessage(`{"months":[7]}`),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.JSONEq(t, `{"months":[7]}`, string(resp.Parameters))
	repo.AssertExpectations(t)
}

func TestCreateRuleValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateRuleRequest
		wantErr error
	}{
		{
			name:    "unknown type",
			req:     models.CreateRuleRequest{UserID: ownerID, ClubID: 1, RuleType: "discount", Parameters: json.RawMessage(`{}`)},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "wrong parameters shape",
			req:     models.CreateRuleRequest{UserID: ownerID, ClubID: 1, RuleType: "require_deposit", Parameters: json.RawMessage(`{"months":[7]}`)},
			wantErr: ErrInvalidRuleParams,
		},
		{
			name:    "club not found",
			req:     models.CreateRuleRequest{UserID: ownerID, ClubID: 9, RuleType: "min_booking_period", Parameters: json.RawMessage(`{"minPeriod":10}`)},
			wantErr: ErrClubNotFound,
		},
		{
			name:    "vessel owner cannot manage club",
			req:     models.CreateRuleRequest{UserID: otherID, ClubID: 1, RuleType: "min_booking_period", Parameters: json.RawMessage(`{"minPeriod":10}`)},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown user cannot manage club",
			req:     models.CreateRuleRequest{UserID: 777, ClubID: 1, RuleType: "min_booking_period", Parameters: json.RawMessage(`{"minPeriod":10}`)},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "tariff of another club",
			req:     models.CreateRuleRequest{UserID: adminID, ClubID: 1, TariffID: ptr.Ptr(int64(20)), RuleType: "min_booking_period", Parameters: json.RawMessage(`{"minPeriod":10}`)},
			wantErr: ErrTariffNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRuleRepo{}
			svc := newTestService(repo)

			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestListRulesSurfacesMisconfiguredRule(t *testing.T) {
	repo := &mockRuleRepo{}
	svc := newTestService(repo)

	repo.On("GetByClub", mock.Anything, int64(1), (*int64)(nil)).
		Return(nil, &domain.RuleConfigurationError{RuleID: 13, RuleType: domain.RuleRequireDeposit, Reason: "depositAmount is required"})

	_, err := svc.List(context.Background(), &models.ListRulesRequest{UserID: adminID, ClubID: 1})

	var cfgErr *domain.RuleConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, int64(13), cfgErr.RuleID)
}

func TestListRules(t *testing.T) {
	repo := &mockRuleRepo{}
	svc := newTestService(repo)

	repo.On("GetByClub", mock.Anything, int64(1), (*int64)(nil)).Return([]domain.BookingRule{
		{ID: 1, ClubID: 1, Type: domain.RuleMinBookingPeriod, Params: domain.MinBookingPeriodParams{MinPeriod: 30}},
	}, nil)

	resp, err := svc.List(context.Background(), &models.ListRulesRequest{UserID: ownerID, ClubID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Rules, 1)
	assert.JSONEq(t, `{"minPeriod":30}`, string(resp.Rules[0].Parameters))
}

func TestDeleteRule(t *testing.T) {
	repo := &mockRuleRepo{}
	svc := newTestService(repo)

	repo.On("Delete", mock.Anything, int64(1), int64(5)).Return(nil)
	repo.On("Delete", mock.Anything, int64(1), int64(6)).Return(ruleRepo.ErrRuleNotFound)

	require.NoError(t, svc.Delete(context.Background(), 1, 5, ownerID))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, 6, ownerID), ErrRuleNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1, 5, otherID), ErrAccessDenied)
}
