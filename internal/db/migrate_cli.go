package db

import (
	"fmt"
	"io"
	"log"

	"github.com/spacephys/driftframe/internal/timeutil"
)

// RunMigrateCommand handles the 'migrate' subcommand. The store is opened
// without applying migrations so each action sees the real schema state.
func RunMigrateCommand(args []string, dbPath string, out io.Writer) error {
	if len(args) < 1 || args[0] == "help" {
		PrintMigrateHelp(out)
		if len(args) < 1 {
			return fmt.Errorf("missing migrate action")
		}
		return nil
	}
	if dbPath == "" {
		return fmt.Errorf("migrate requires a database path")
	}

	action := args[0]
	switch action {
	case "up", "down", "status":
	default:
		PrintMigrateHelp(out)
		return fmt.Errorf("unknown migrate action: %s", action)
	}

	store, err := openStore(dbPath, timeutil.RealClock{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	switch action {
	case "up":
		log.Printf("Running migrations...")
		if err := store.MigrateUp(); err != nil {
			return err
		}
		log.Println("✓ All migrations applied successfully")
	case "down":
		log.Printf("Rolling back one migration...")
		if err := store.MigrateDown(); err != nil {
			return err
		}
		log.Println("✓ Migration rolled back successfully")
	}
	return printMigrateStatus(store, out)
}

func printMigrateStatus(store *Store, out io.Writer) error {
	version, dirty, err := store.MigrateVersion()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	fmt.Fprintln(out, "=== Migration Status ===")
	fmt.Fprintf(out, "Current version: %d\n", version)
	fmt.Fprintf(out, "Dirty: %v\n", dirty)
	if dirty {
		fmt.Fprintln(out, "\n⚠️  WARNING: Database is in a dirty state!")
		fmt.Fprintln(out, "A migration failed mid-execution. Inspect the database before retrying.")
	}
	return nil
}

// PrintMigrateHelp writes usage for the migrate subcommand.
func PrintMigrateHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: driftframe -db <path> migrate <action>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Actions:")
	fmt.Fprintln(out, "  up       Apply all pending migrations")
	fmt.Fprintln(out, "  down     Roll back the most recent migration")
	fmt.Fprintln(out, "  status   Show the current schema version")
	fmt.Fprintln(out, "  help     Show this message")
}
