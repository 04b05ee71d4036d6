package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/importer"
	"github.com/pable/go-teamsheet/internal/stats"
)

var (
	sheetFile  string
	sheetForce bool
)

var addCmd = &cobra.Command{
	Use:   "add --file sheet.yaml",
	Short: "Record a new teamsheet",
	Long: `Record one match from a YAML teamsheet. Players are listed in shirt order; leave
an entry blank for a vacant shirt. New names that look like typos of existing players
stop the write; re-run with --force to record them as new players.

Run 'teamsheet template' to get a sheet prefilled from the last match.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var editCmd = &cobra.Command{
	Use:   "edit <match-id> --file sheet.yaml",
	Short: "Replace a match and its teamsheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVarP(&sheetFile, "file", "f", "", "YAML teamsheet file")
		c.Flags().BoolVar(&sheetForce, "force", false, "record names even if they look like existing players")
		_ = c.MarkFlagRequired("file")
	}
}

// reportSuggestions prints fuzzy advisories and reports whether err was one.
func reportSuggestions(err error) bool {
	var sugg *stats.SuggestionError
	if !errors.As(err, &sugg) {
		return false
	}
	for _, s := range sugg.Suggestions {
		fmt.Fprintln(os.Stderr, s)
	}
	fmt.Fprintln(os.Stderr, "Nothing saved. Fix the names or re-run with --force.")
	return true
}

func runAdd(cmd *cobra.Command, args []string) error {
	sheet, err := importer.ReadSheetFile(sheetFile)
	if err != nil {
		return err
	}
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := svc.RecordTeamsheet(cmd.Context(), sheet, sheetForce)
	if reportSuggestions(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("record teamsheet: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Recorded match %d.\n", id)
	return showMatch(cmd, db, id)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	sheet, err := importer.ReadSheetFile(sheetFile)
	if err != nil {
		return err
	}
	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	err = svc.UpdateTeamsheet(cmd.Context(), id, sheet, sheetForce)
	if reportSuggestions(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("update match %d: %w", id, err)
	}
	fmt.Fprintf(os.Stdout, "Updated match %d.\n", id)
	return showMatch(cmd, db, id)
}
