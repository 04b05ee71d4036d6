package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/model"
	"github.com/pable/go-teamsheet/internal/report"
)

var namesUnused bool

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "List every stored player name with appearance counts",
	Long: `List every player row in the database alphabetically, including players left with
no appearances after an edit or delete. Pass --unused to show only those.`,
	Args: cobra.NoArgs,
	RunE: runNames,
}

func init() {
	namesCmd.Flags().BoolVar(&namesUnused, "unused", false, "only players with no appearances")
}

func runNames(cmd *cobra.Command, args []string) error {
	_, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.PlayerAppearanceCounts(cmd.Context())
	if err != nil {
		return fmt.Errorf("player names: %w", err)
	}
	if namesUnused {
		rows = unusedPlayers(rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No players.")
		return nil
	}
	report.PrintLeaderboard(os.Stdout, rows, 0)
	return nil
}

func unusedPlayers(rows []model.PlayerCount) []model.PlayerCount {
	var out []model.PlayerCount
	for _, r := range rows {
		if r.Total == 0 {
			out = append(out, r)
		}
	}
	return out
}
