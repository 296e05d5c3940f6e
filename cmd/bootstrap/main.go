package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hospitaldb/config"
	"hospitaldb/logging"
	"hospitaldb/setup"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Recreate the hospital database from its schema script and report on it",
		Long: "Removes any existing database file, executes the schema script as a single\n" +
			"transaction and prints the tables, sample rows, billing totals, views and\n" +
			"indexes of the result. Flags may also be set as HOSPITALDB_<FLAG> environment\n" +
			"variables or in a .env file.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, func(cfg config.Config, logger *zap.SugaredLogger) {
				// Failures are printed by setup.Run; the exit status stays zero.
				_ = setup.Run(cmd.Context(), setup.OptionsFromConfig(cfg), cmd.OutOrStdout(), logger)
			})
		},
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report for an existing database without recreating it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(cmd, func(cfg config.Config, logger *zap.SugaredLogger) {
				_ = setup.Report(cmd.Context(), setup.OptionsFromConfig(cfg), cmd.OutOrStdout(), logger)
			})
		},
	}
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Printf("command failed: %v", err)
		os.Exit(1)
	}
}

// withConfig resolves the configuration and logger for cmd and passes them to run.
func withConfig(cmd *cobra.Command, run func(config.Config, *zap.SugaredLogger)) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Debugf("config: db=%s schema=%s driver=%s backup=%t", cfg.DBPath, cfg.SchemaPath, cfg.Driver, cfg.Backup)
	run(cfg, logger)
	return nil
}
