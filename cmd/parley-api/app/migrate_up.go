package app

import (
	"bufio"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/parleychat/parley-server/database"
	"github.com/parleychat/parley-server/internal/config"
)

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending database migrations",
	Long: `Apply all pending database migrations to bring the schema up to date.
This command reads the database connection parameters from the config file
and applies all migrations that haven't been run yet.`,
	RunE: runMigrateUp,
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadMigrationConfig(cmd)
	if err != nil {
		return err
	}

	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return fmt.Errorf("failed to get yes flag: %w", err)
	}

	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	if !yes {
		prompt := fmt.Sprintf("About to apply migrations to database %s@%s:%d/%s. Continue?",
			cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
		if !confirm(prompt) {
			slog.Info("Migration cancelled")
			return fmt.Errorf("migration cancelled by user")
		}
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return fmt.Errorf("failed to build connection string: %w", err)
	}

	m, err := database.NewFromConnectionString(connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	slog.Info("Applying database migrations...")
	if numSteps == 0 {
		err = m.Up()
	} else {
		if numSteps > math.MaxInt {
			return fmt.Errorf("number of steps exceeds maximum allowed value")
		}
		err = m.Steps(int(numSteps)) // #nosec G115 -- overflow checked above
	}
	if err != nil {
		if err == migrate.ErrNoChange {
			slog.Info("No pending migrations - database is already up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		slog.Warn("Unable to get migration version", "error", err)
	} else if dirty {
		slog.Warn("Database is in a dirty state", "version", version)
	} else {
		slog.Info("Migrations applied successfully", "version", version)
	}

	return nil
}

// loadMigrationConfig loads the config file named by the --config flag and
// requires a database section.
func loadMigrationConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Database == nil {
		return nil, fmt.Errorf("database configuration is required")
	}

	return cfg, nil
}

// confirm prompts the user and reads a yes/no answer from stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s (yes/no): ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y"
}
