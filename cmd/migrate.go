package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/db"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/storage"
)

// MigrateCommand creates the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Run database migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "status",
				Usage: "Show migration status without applying migrations",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Read migrations from a directory instead of the built-in set",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return RunMigrations(filepath.Join(cfg.StorageDir, storage.DatabaseFile), c.String("dir"), c.Bool("status"))
		},
	}
}

// RunMigrations applies or reports the migrations of the database at
// dbPath.
func RunMigrations(dbPath, dir string, statusOnly bool) error {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	manager := db.NewMigrationManager(conn)
	if dir != "" {
		manager = db.NewMigrationManagerFromPath(conn, dir)
	}

	fmt.Printf("=== Database: %s ===\n", dbPath)
	if statusOnly {
		return showMigrationStatus(manager)
	}

	n, err := manager.ApplyPendingMigrations()
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("Database is up to date")
	} else {
		fmt.Println(successStyle.Render(fmt.Sprintf("Applied %d migrations", n)))
	}
	return nil
}

// showMigrationStatus displays the current migration status
func showMigrationStatus(manager *db.MigrationManager) error {
	status, err := manager.Status()
	if err != nil {
		return err
	}

	fmt.Printf("Applied migrations: %d\n", len(status.Applied))
	for _, migration := range status.Applied {
		appliedTime := "unknown"
		if migration.AppliedAt != nil {
			appliedTime = migration.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("  ✓ %03d: %s (applied: %s)\n", migration.Version, migration.Name, appliedTime)
	}

	fmt.Printf("Pending migrations: %d\n", len(status.Pending))
	for _, migration := range status.Pending {
		fmt.Printf("  • %03d: %s\n", migration.Version, migration.Name)
	}

	if len(status.Pending) == 0 {
		fmt.Println("  (none - database is up to date)")
	}
	return nil
}
