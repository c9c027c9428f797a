package schema

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/m04kA/SMC-MarinaService/pkg/dbmetrics"
)

// SQL полная схема БД. Все операторы идемпотентны (IF NOT EXISTS)
//
//go:embed schema.sql
var SQL string

// Apply применяет схему к базе
func Apply(ctx context.Context, db dbmetrics.DBExecutor) error {
	if _, err := db.ExecContext(ctx, SQL); err != nil {
		return fmt.Errorf("schema: apply: %w", err)
	}
	return nil
}
