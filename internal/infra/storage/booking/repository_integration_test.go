//go:build integration

package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-MarinaService/internal/domain"
	"github.com/m04kA/SMC-MarinaService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
	"github.com/m04kA/SMC-MarinaService/pkg/txmanager"
)

func newBooking(f storagetest.Fixture) *domain.Booking {
	return &domain.Booking{
		ClubID:        f.ClubID,
		BerthID:       f.BerthID,
		VesselID:      f.VesselID,
		OwnerID:       f.OwnerID,
		Status:        domain.StatusPending,
		TotalPrice:    decimal.NewFromInt(90000),
		DepositAmount: decimal.Zero,
	}
}

func TestCreateRejectsSecondLiveBooking(t *testing.T) {
	db := storagetest.StartPostgres(t)
	repo := NewRepository(dbmetrics.Wrap(db, nil))
	ctx := context.Background()
	f := storagetest.SeedBerth(t, db)

	first, err := repo.Create(ctx, newBooking(f))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newBooking(f))
	require.ErrorIs(t, err, ErrBerthAlreadyBooked)

	cancelled, err := repo.Cancel(ctx, first.ID, "changed plans")
	require.NoError(t, err)
	require.True(t, cancelled)

	second, err := repo.Create(ctx, newBooking(f))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	live, err := repo.GetLiveByBerth(ctx, f.BerthID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, second.ID, live[0].ID)
}

func TestConcurrentCreateKeepsOneLiveBooking(t *testing.T) {
	db := storagetest.StartPostgres(t)
	wrapped := dbmetrics.Wrap(db, nil)
	repo := NewRepository(wrapped)
	txm := txmanager.NewTransactionManager(wrapped)
	f := storagetest.SeedBerth(t, db)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := txm.DoSerializable(context.Background(), func(ctx context.Context) error {
				live, err := repo.GetLiveByBerth(ctx, f.BerthID)
				if err != nil {
					return err
				}
				if len(live) > 0 {
					return ErrBerthAlreadyBooked
				}
				_, err = repo.Create(ctx, newBooking(f))
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrBerthAlreadyBooked), IsBerthConflict(err):
				conflicts++
			case strings.Contains(err.Error(), "could not serialize access"):
				// сбой сериализации на чтении обёрнут репозиторием без %w
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)

	var live int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM bookings WHERE berth_id = $1 AND status IN ('pending', 'confirmed', 'active')`,
		f.BerthID).Scan(&live))
	assert.Equal(t, 1, live)
}
