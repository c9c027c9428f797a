//go:build integration

// Package storagetest поднимает postgres в контейнере для интеграционных тестов репозиториев
package storagetest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-MarinaService/internal/infra/storage/schema"
)

const pgPort = nat.Port("5432/tcp")

// StartPostgres запускает контейнер и применяет схему
// Контейнер и соединение закрываются в t.Cleanup
func StartPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     "marina",
				"POSTGRES_PASSWORD": "marina",
				"POSTGRES_DB":       "marina",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, pgPort)
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=marina password=marina dbname=marina sslmode=disable", host, port.Port())
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, schema.Apply(ctx, db))
	return db
}

// Fixture id клуба, причала и судна (владелец судна OwnerID)
type Fixture struct {
	ClubID   int64
	BerthID  int64
	VesselID int64
	OwnerID  int64
}

// SeedBerth создаёт клуб, причал и судно
func SeedBerth(t *testing.T, db *sql.DB) Fixture {
	t.Helper()
	ctx := context.Background()
	f := Fixture{OwnerID: 7}

	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO clubs (owner_id, name, rental_months, season, base_price)
		 VALUES (1, 'North Pier', '{5,6,7,8,9}', 2025, 90000) RETURNING id`).Scan(&f.ClubID))
	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO berths (club_id, name) VALUES ($1, 'A-1') RETURNING id`, f.ClubID).Scan(&f.BerthID))
	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO vessels (owner_id, name) VALUES ($1, 'Aurora') RETURNING id`, f.OwnerID).Scan(&f.VesselID))
	return f
}

// SeedBooking создаёт живое бронирование причала напрямую через SQL
func SeedBooking(t *testing.T, db *sql.DB, f Fixture) int64 {
	t.Helper()
	var id int64
	require.NoError(t, db.QueryRowContext(context.Background(),
		`INSERT INTO bookings (club_id, berth_id, vessel_id, owner_id, status, total_price)
		 VALUES ($1, $2, $3, $4, 'pending', 90000) RETURNING id`,
		f.ClubID, f.BerthID, f.VesselID, f.OwnerID).Scan(&id))
	return id
}
