package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/importer"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export every match in the legacy CSV layout",
	Long: `Write all stored matches, in the order they were recorded, as a CSV that
'teamsheet import' (and the original spreadsheet) can read back. Use "-" for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	_, db, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	snap, err := db.LoadSnapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("load matches: %w", err)
	}
	sheets := importer.SheetsFromSnapshot(snap)

	out := os.Stdout
	if args[0] != "-" {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer f.Close()
		out = f
	}
	if err := importer.WriteCSV(out, sheets); err != nil {
		return err
	}
	if out != os.Stdout {
		fmt.Fprintf(os.Stdout, "Wrote %d matches to %s\n", len(sheets), args[0])
	}
	return nil
}
