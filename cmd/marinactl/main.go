package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MarinaService/internal/cli"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "marinactl",
		Short: "marinactl - administrative tool for SMC-MarinaService",
		Long: `marinactl applies the database schema and computes berth price quotes
against the same database and configuration the service uses.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config file")

	rootCmd.AddCommand(cli.MigrateCmd(&configPath))
	rootCmd.AddCommand(cli.QuoteCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
