package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/fuzzy"
	"github.com/pable/go-teamsheet/internal/model"
	"github.com/pable/go-teamsheet/internal/report"
)

var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Show a player's career appearances",
	Long: `Show one player's totals, win rate, first and last appearance, shirt numbers worn
and every match played, newest first. The name must match exactly; a close match is
suggested when it does not.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	ps, err := svc.GetPlayerStats(cmd.Context(), name)
	if errors.Is(err, model.ErrNotFound) {
		p, lerr := db.GetPlayerByName(cmd.Context(), name)
		if lerr == nil && p != nil {
			fmt.Fprintf(os.Stderr, "%q is on record but has no appearances\n", p.Name)
			return nil
		}
		fmt.Fprintf(os.Stderr, "No appearances for %q\n", name)
		known, lerr := db.PlayerNames(cmd.Context())
		if lerr == nil {
			if best, ok := closestName(name, known, cfg.SuggestThreshold); ok {
				fmt.Fprintf(os.Stderr, "Did you mean %q?\n", best)
			}
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("player stats: %w", err)
	}
	report.PrintPlayer(os.Stdout, ps)
	return nil
}

// closestName returns the known name with the best WRatio against name when it reaches
// threshold.
func closestName(name string, known []string, threshold int) (string, bool) {
	best, score, ok := fuzzy.ExtractOne(name, known, fuzzy.WRatio)
	if !ok || score < threshold {
		return "", false
	}
	return best, true
}
