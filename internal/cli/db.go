package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-MarinaService/internal/config"
	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
)

const connectTimeout = 10 * time.Second

// openDB загружает конфигурацию и подключается к базе сервиса
// Метрики в CLI не собираются, поэтому обёртка создаётся без коллектора
func openDB(ctx context.Context, configPath string) (*sql.DB, *dbmetrics.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database %s:%d/%s: %w",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, err)
	}

	return db, dbmetrics.Wrap(db, nil), nil
}
