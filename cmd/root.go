package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel   string // Log verbosity level
	configFile string // Optional settings file (yaml, json, toml)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "aircap",
	Short: "Airspace corridor capacity calculator and Monte Carlo sensitivity sweeps",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := loadConfig(configFile); err != nil {
			logrus.Fatalf("Failed to load settings: %v", err)
		}
		// Set up logging
		level, err := logrus.ParseLevel(settings.GetString(keyLog))
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", settings.GetString(keyLog))
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up persistent flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Settings file (default: ./aircap.yaml if present)")
	rootCmd.PersistentFlags().String("db-driver", "", "History database driver (sqlite, postgres)")
	rootCmd.PersistentFlags().String("db-path", "", "SQLite history file")
	rootCmd.PersistentFlags().String("db-dsn", "", "Postgres connection string")

	bindFlag(keyLog, "log")
	bindFlag(keyDBDriver, "db-driver")
	bindFlag(keyDBPath, "db-path")
	bindFlag(keyDBDSN, "db-dsn")

	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(historyCmd)
}

func bindFlag(key, flag string) {
	if err := settings.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		logrus.Fatalf("binding flag %s: %v", flag, err)
	}
}
