package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultDBPath     = "hospital.db"
	DefaultSchemaPath = "healthcare_schema.sql"
	DefaultDriver     = "sqlite3"
	DefaultMaxBackups = 5

	envPrefix = "HOSPITALDB"
)

// Keys shared by flags, environment variables (HOSPITALDB_<KEY>) and viper.
const (
	DBKey         = "db"
	SchemaKey     = "schema"
	DriverKey     = "driver"
	BackupKey     = "backup"
	MaxBackupsKey = "max-backups"
	LogLevelKey   = "log-level"
)

type Config struct {
	DBPath     string
	SchemaPath string
	Driver     string
	Backup     bool
	MaxBackups int
	LogLevel   string
}

// Default is the fixed configuration used when nothing is overridden.
func Default() Config {
	return Config{
		DBPath:     DefaultDBPath,
		SchemaPath: DefaultSchemaPath,
		Driver:     DefaultDriver,
		MaxBackups: DefaultMaxBackups,
		LogLevel:   "info",
	}
}

// RegisterFlags adds the configuration flags to flags with their defaults.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String(DBKey, d.DBPath, "Path to SQLite database file")
	flags.String(SchemaKey, d.SchemaPath, "Path to the SQL script to execute")
	flags.String(DriverKey, d.Driver, "SQLite driver: sqlite3 (cgo) or modernc (pure Go)")
	flags.Bool(BackupKey, d.Backup, "Whether to back up an existing database before it is removed")
	flags.Int(MaxBackupsKey, d.MaxBackups, "Maximum number of backups to retain")
	flags.String(LogLevelKey, d.LogLevel, "Log level: debug, info, warn or error")
}

// Load resolves the configuration from flags, HOSPITALDB_* environment
// variables and a .env file in the working directory, in that order of
// precedence. A missing .env file is ignored.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(DBKey, d.DBPath)
	v.SetDefault(SchemaKey, d.SchemaPath)
	v.SetDefault(DriverKey, d.Driver)
	v.SetDefault(BackupKey, d.Backup)
	v.SetDefault(MaxBackupsKey, d.MaxBackups)
	v.SetDefault(LogLevelKey, d.LogLevel)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := Config{
		DBPath:     v.GetString(DBKey),
		SchemaPath: v.GetString(SchemaKey),
		Driver:     v.GetString(DriverKey),
		Backup:     v.GetBool(BackupKey),
		MaxBackups: v.GetInt(MaxBackupsKey),
		LogLevel:   v.GetString(LogLevelKey),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: %s must not be empty", DBKey)
	}
	if c.SchemaPath == "" {
		return fmt.Errorf("config: %s must not be empty", SchemaKey)
	}
	if c.MaxBackups < 1 {
		return fmt.Errorf("config: %s must be at least 1, got %d", MaxBackupsKey, c.MaxBackups)
	}
	return nil
}
