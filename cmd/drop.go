package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-teamsheet/internal/importer"
	"github.com/pable/go-teamsheet/internal/storage"
)

var (
	dropForce  bool
	dropBackup string
)

// dropCmd deletes the teamsheet database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the teamsheet database",
	Long: `Permanently delete the SQLite teamsheet database. All matches, players and merge
history will be lost. Pass --backup to write every match to a legacy CSV first; it can be
loaded again with 'teamsheet import'.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropBackup, "backup", "", "export all matches to this CSV before deleting")
}

func runDrop(cmd *cobra.Command, args []string) error {
	path := cfg.DBPath
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", path)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if dropBackup != "" {
		n, err := backupCSV(cmd.Context(), path, dropBackup)
		if err != nil {
			return fmt.Errorf("backup before drop: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Backed up %d matches to %s\n", n, dropBackup)
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL mode leaves side files next to the database.
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", path)
	return nil
}

func backupCSV(ctx context.Context, dbFile, out string) (int, error) {
	db, err := storage.Open(dbFile)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	snap, err := db.LoadSnapshot(ctx)
	if err != nil {
		return 0, err
	}
	sheets := importer.SheetsFromSnapshot(snap)

	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	if err := importer.WriteCSV(f, sheets); err != nil {
		f.Close()
		return 0, err
	}
	return len(sheets), f.Close()
}
