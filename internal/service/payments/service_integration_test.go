//go:build integration

package payments

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/booking"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	paymentRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/payment"
	"github.com/m04kA/SMC-MarinaService/internal/infra/storage/storagetest"
	bookingsService "github.com/m04kA/SMC-MarinaService/internal/service/bookings"
	"github.com/m04kA/SMC-MarinaService/internal/service/payments/models"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
	"github.com/m04kA/SMC-MarinaService/pkg/metrics"
	"github.com/m04kA/SMC-MarinaService/pkg/txmanager"
)

// владелец клуба в storagetest.SeedBerth
const seededClubOwnerID = int64(1)

func TestConcurrentMarkPaidConfirmsBooking(t *testing.T) {
	db := storagetest.StartPostgres(t)
	wrapped := dbmetrics.Wrap(db, nil)
	ctx := context.Background()

	bookings := bookingRepo.NewRepository(wrapped)
	payments := paymentRepo.NewRepository(wrapped)
	clubs := clubRepo.NewRepository(wrapped)
	users := &fakeUsers{roles: map[int64]string{}}
	log := logger.NewNop()

	notifier := bookingsService.NewService(bookings, payments, clubs, users, events.NopPublisher{}, log)
	svc := NewService(payments, bookings, clubs, users, notifier, txmanager.NewTransactionManager(wrapped),
		events.NopPublisher{}, (*metrics.Metrics)(nil), Policy{DailyPenaltyRate: decimal.RequireFromString("0.005")}, log)

	const rounds = 5
	for round := 0; round < rounds; round++ {
		f := storagetest.SeedBerth(t, db)
		bookingID := storagetest.SeedBooking(t, db, f)

		due := time.Now().AddDate(0, 1, 0)
		created, err := payments.CreateBatch(ctx, []*domain.Payment{
			{BookingID: bookingID, PayerID: f.OwnerID, Kind: domain.PaymentKindInstallment, Amount: decimal.NewFromInt(10000),
				Status: domain.PaymentPending, Required: true, DueDate: due},
			{BookingID: bookingID, PayerID: f.OwnerID, Kind: domain.PaymentKindInstallment, Amount: decimal.NewFromInt(10000),
				Status: domain.PaymentPending, Required: true, DueDate: due.AddDate(0, 1, 0)},
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, len(created))
		for i, p := range created {
			wg.Add(1)
			go func(i int, paymentID int64) {
				defer wg.Done()
				_, errs[i] = svc.MarkPaid(ctx, &models.MarkPaidRequest{
					UserID:        seededClubOwnerID,
					PaymentID:     paymentID,
					TransactionID: fmt.Sprintf("tx-%d-%d", round, i),
				})
			}(i, p.ID)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}

		booking, err := bookings.GetByID(ctx, bookingID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, booking.Status, "round %d", round)
	}
}
