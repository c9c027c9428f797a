package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	berthRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/berth"
	clubRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/club"
	ruleRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/rule"
	tariffRepo "github.com/m04kA/SMC-MarinaService/internal/infra/storage/tariff"
	getPriceQuote "github.com/m04kA/SMC-MarinaService/internal/usecase/get_price_quote"
	"github.com/m04kA/SMC-MarinaService/pkg/logger"
)

// QuoteCmd считает котировку для причала так же, как GET /clubs/{id}/berths/{id}/quote
func QuoteCmd(configPath *string) *cobra.Command {
	var (
		clubID   int64
		berthID  int64
		tariffID int64
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a price quote for a berth",
		Example: `  marinactl quote --club 1 --berth 5 --tariff 10
  marinactl quote --club 1 --berth 6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, wrapped, err := openDB(ctx, *configPath)
			if err != nil {
				return err
			}
			defer db.Close()

			uc := getPriceQuote.NewUseCase(
				clubRepo.NewRepository(wrapped),
				berthRepo.NewRepository(wrapped),
				tariffRepo.NewRepository(wrapped),
				ruleRepo.NewRepository(wrapped),
				logger.NewNop(),
			)

			req := &getPriceQuote.Request{ClubID: clubID, BerthID: berthID}
			if cmd.Flags().Changed("tariff") {
				req.TariffID = &tariffID
			}

			resp, err := uc.Execute(ctx, req)
			if err != nil {
				return fmt.Errorf("quote club=%d berth=%d: %w", clubID, berthID, err)
			}

			renderQuote(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().Int64Var(&clubID, "club", 0, "club id")
	cmd.Flags().Int64Var(&berthID, "berth", 0, "berth id")
	cmd.Flags().Int64Var(&tariffID, "tariff", 0, "tariff id (required when the berth has tariffs)")
	_ = cmd.MarkFlagRequired("club")
	_ = cmd.MarkFlagRequired("berth")

	return cmd
}

func renderQuote(w io.Writer, resp *getPriceQuote.Response) {
	quote := resp.Quote
	bold := color.New(color.Bold)

	tariff := "base price"
	if resp.TariffID != nil {
		tariff = fmt.Sprintf("tariff %d", *resp.TariffID)
	}
	fmt.Fprintf(w, "%s club %d, berth %d, %s\n", bold.Sprint("Quote:"), resp.ClubID, resp.BerthID, tariff)

	if !quote.Priceable {
		fmt.Fprintf(w, "  %s tariff has no chargeable months\n", color.New(color.FgYellow).Sprint("NOT PRICEABLE"))
		return
	}

	for _, item := range quote.MonthlyBreakdown {
		fmt.Fprintf(w, "  %-10s %12s\n", item.Label, item.Amount.StringFixed(2))
	}
	if len(quote.MonthlyBreakdown) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 23))
	}
	fmt.Fprintf(w, "  %-10s %12s\n", "Base", quote.BasePrice.StringFixed(2))
	if quote.DepositAmount.IsPositive() {
		fmt.Fprintf(w, "  %-10s %12s\n", "Deposit", quote.DepositAmount.StringFixed(2))
	}
	fmt.Fprintf(w, "  %-10s %12s\n", "Total", color.New(color.FgGreen).Sprint(quote.TotalPrice.StringFixed(2)))
	fmt.Fprintf(w, "  Duration:  %d days\n", resp.DurationDays)
	if len(quote.AppliedRuleIDs) > 0 {
		fmt.Fprintf(w, "  Rules:     %v\n", quote.AppliedRuleIDs)
	}
}
