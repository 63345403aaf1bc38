package main

import (
	"context"
	"fmt"

	"order17vat/internal/app"
	"order17vat/internal/auditctx"
	"order17vat/internal/config"
	"order17vat/internal/database"
	"order17vat/internal/logger"

	"github.com/spf13/cobra"
)

const cliActor = "vatctl"

var (
	cfg        config.Config
	sqlitePath string
)

var rootCmd = &cobra.Command{
	Use:   "vatctl",
	Short: "Manage the order17vat module",
	Long: `vatctl installs and uninstalls the order17vat module, sweeps flag rows
left behind by deleted orders, and reads or changes the VAT 17% flag of orders.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "Use a local SQLite database file instead of postgres")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(toggleCmd)
}

func initConfig() {
	cfg = config.Load()
	if sqlitePath != "" {
		cfg.DBDriver = config.DriverSQLite
		cfg.DBPath = sqlitePath
		cfg.DBMigrate = config.MigrateAuto
	}

	if _, err := logger.New(logger.Config{
		ServiceName: cliActor,
		Environment: cfg.Environment,
		Level:       "warn",
		Format:      "console",
	}); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "logger setup failed: %v\n", err)
	}
}

// openApp connects to the configured database and builds the services. No hooks are registered.
func openApp() (*app.App, error) {
	db, err := database.NewConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db, cfg); err != nil {
		return nil, err
	}
	return app.New(db, nil), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return auditctx.WithActor(ctx, cliActor)
}
