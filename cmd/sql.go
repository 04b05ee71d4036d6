package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the teamsheet database",
	Long: `Run an arbitrary SQL query against the teamsheet database and print results as a table.
The query runs in a transaction that is always rolled back, so nothing is changed.

Schema overview:
  players(id, name)
  matches(id, league, season, match_date, opposition, location, result,
    guildford_points, opposition_points)
  appearances(id, player_id, match_id, position)   -- 1-15 start, 16-20 bench
  merge_audit(id, canonical, merged JSON, reassigned, created_at)

Example: teamsheet sql "SELECT season, COUNT(*) FROM matches GROUP BY season"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	_, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("sql: %w", err)
	}
	report.PrintRaw(os.Stdout, cols, rows)
	return nil
}
