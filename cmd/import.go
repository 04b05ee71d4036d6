package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-teamsheet/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import matches from a legacy teamsheet CSV",
	Long: `Import a spreadsheet export with one row per match. The first eight columns are
league, season, date, opposition, location, result, club points and opposition points;
player columns start at the first header that is a number (1, 2, 3, ...). Rows without a
date are skipped. The whole file is stored in one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := importer.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, line := range res.Skipped {
		logger.Warn("skipping row without a date", zap.String("file", path), zap.Int("line", line))
	}
	if len(res.Sheets) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}

	svc, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Importing %d matches from %s...\n", len(res.Sheets), path)
	n, err := svc.ImportTeamsheets(cmd.Context(), res.Sheets)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d matches (%d rows skipped).\n", n, len(res.Skipped))
	return nil
}
