package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/model"
	"github.com/pable/go-teamsheet/internal/report"
)

var (
	appsSearch string
	appsSort   string
	appsOrder  string
	appsAll    bool
)

var appearancesCmd = &cobra.Command{
	Use:     "appearances",
	Aliases: []string{"players"},
	Short:   "All-time appearance leaderboard",
	Args:    cobra.NoArgs,
	RunE:    runAppearances,
}

func init() {
	appearancesCmd.Flags().StringVar(&appsSearch, "search", "", "only names containing this text (case-insensitive)")
	appearancesCmd.Flags().StringVar(&appsSort, "sort", "total", "sort by name, total, starts or bench")
	appearancesCmd.Flags().StringVar(&appsOrder, "order", "desc", "asc or desc")
	appearancesCmd.Flags().BoolVar(&appsAll, "all", false, "show every player instead of the configured limit")
}

func runAppearances(cmd *cobra.Command, args []string) error {
	switch appsSort {
	case "name", "total", "starts", "bench":
	default:
		return fmt.Errorf("unknown sort field %q", appsSort)
	}
	if appsOrder != "asc" && appsOrder != "desc" {
		return fmt.Errorf("order must be asc or desc, got %q", appsOrder)
	}

	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	q := model.AppearanceQuery{Search: appsSearch, SortBy: appsSort, Order: appsOrder}
	if !appsAll {
		q.Limit = cfg.LeaderboardLimit
	}
	rows, err := svc.Appearances(cmd.Context(), q)
	if err != nil {
		return fmt.Errorf("appearances: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No matching players.")
		return nil
	}
	report.PrintLeaderboard(os.Stdout, rows, 0)
	return nil
}
