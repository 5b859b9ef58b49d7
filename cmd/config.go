package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/airspace-sim/aircap/sim/history"
)

// Settings keys.
const (
	keyLog      = "log"
	keyDBDriver = "db.driver"
	keyDBPath   = "db.path"
	keyDBDSN    = "db.dsn"
)

// settings holds application configuration: defaults, then an optional
// settings file, then AIRCAP_* environment variables, then flags.
var settings = newSettings()

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyLog, "warn")
	v.SetDefault(keyDBDriver, history.DriverSQLite)
	v.SetDefault(keyDBPath, "aircap.db")
	v.SetDefault(keyDBDSN, "")

	v.SetEnvPrefix("AIRCAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads path, or ./aircap.{yaml,json,toml} when path is empty.
// A missing default file is not an error.
func loadConfig(path string) error {
	if path != "" {
		settings.SetConfigFile(path)
	} else {
		settings.SetConfigName("aircap")
		settings.AddConfigPath(".")
	}
	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading settings file: %w", err)
	}
	return nil
}

// historyConfig returns the store configuration from settings.
func historyConfig() history.Config {
	return history.Config{
		Driver: settings.GetString(keyDBDriver),
		Path:   settings.GetString(keyDBPath),
		DSN:    settings.GetString(keyDBDSN),
	}
}

// openHistory opens the configured store.
func openHistory() (*history.Store, error) {
	return history.Open(historyConfig())
}
