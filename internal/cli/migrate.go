package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MarinaService/internal/infra/storage/schema"
)

// MigrateCmd применяет схему БД
func MigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long: `Apply the embedded schema to the configured database.
All statements are idempotent, running migrate twice is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, wrapped, err := openDB(ctx, *configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := schema.Apply(ctx, wrapped); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", color.New(color.FgRed).Sprint("FAILED"), err)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s schema applied\n", color.New(color.FgGreen).Sprint("OK"))
			return nil
		},
	}
}
