package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"hospitaldb/logging"
)

const (
	// DriverCGO is github.com/mattn/go-sqlite3, the gorm sqlite default.
	DriverCGO = "sqlite3"
	// DriverPure is modernc.org/sqlite, registered as "sqlite".
	DriverPure = "modernc"
)

var (
	ErrEmptyScript   = errors.New("schema script is empty")
	ErrUnknownDriver = errors.New("unknown sqlite driver")
)

// sidecar files SQLite may leave next to the database. A stale journal would
// be replayed into the new file, so they go with it.
var sidecarSuffixes = []string{"-journal", "-wal", "-shm"}

// ResetDatabase removes the database file at dbPath and its sidecar files.
// A missing file is not an error. When backup.Enabled is set the existing
// file is copied aside first.
func ResetDatabase(dbPath string, backup BackupPolicy, log *zap.SugaredLogger) error {
	info, err := os.Stat(dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("reset: no existing database at %s", dbPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", dbPath, err)
	}
	log.Infof("reset: existing database file size: %d bytes", info.Size())

	if backup.Enabled {
		backupPath, err := backupDatabase(dbPath, backup.MaxBackups, time.Now(), log)
		if err != nil {
			return fmt.Errorf("backup %s: %w", dbPath, err)
		}
		log.Infof("reset: existing database backed up to %s", backupPath)
	}

	for _, p := range append([]string{dbPath}, sidecars(dbPath)...) {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	log.Infof("reset: removed %s", dbPath)
	return nil
}

func sidecars(dbPath string) []string {
	out := make([]string, 0, len(sidecarSuffixes))
	for _, s := range sidecarSuffixes {
		out = append(out, dbPath+s)
	}
	return out
}

func dialector(dbPath, driver string) (gorm.Dialector, error) {
	switch driver {
	case "", DriverCGO:
		return sqlite.Open(dbPath), nil
	case DriverPure:
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dbPath}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// Open creates (if needed) and opens the SQLite database at dbPath with a
// single connection. SQL statements are logged at debug level.
func Open(dbPath, driver string, log *zap.SugaredLogger) (*gorm.DB, error) {
	d, err := dialector(dbPath, driver)
	if err != nil {
		return nil, err
	}

	level := logger.Silent
	if log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		level = logger.Info
	}
	newLogger := logger.New(
		logging.StdLog(log, zapcore.DebugLevel),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
	gdb, err := gorm.Open(d, &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// one handle for the whole run; also keeps ":memory:" a single database
	sqlDB.SetMaxOpenConns(1)

	log.Debugf("open: %s using driver %s", dbPath, driverName(driver))
	return gdb, nil
}

func driverName(driver string) string {
	if driver == "" {
		return DriverCGO
	}
	return driver
}

// Close releases the connection pool behind gdb.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadScript reads the SQL script at path.
func LoadScript(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read schema script: %w", err)
	}
	script := string(b)
	if strings.TrimSpace(script) == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyScript)
	}
	return script, nil
}

// SQLite error texts ExecScript reacts to. Both drivers pass them through.
const (
	nestedTransactionMsg = "cannot start a transaction within a transaction"
	noTransactionMsg     = "no transaction is active"
)

// ExecScript runs every statement of script as one batch on a single
// connection. Either the whole batch commits or nothing does.
//
// A script that opens its own transaction (sqlite3 .dump output starts with
// BEGIN TRANSACTION) runs in autocommit mode instead, and its transaction
// decides what commits. A transaction left open by a failing statement is
// rolled back.
func ExecScript(ctx context.Context, gdb *gorm.DB, script string) error {
	if strings.TrimSpace(script) == "" {
		return ErrEmptyScript
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN"); err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx, script)
	if err == nil {
		return commit(ctx, conn)
	}
	rollback(ctx, conn)
	if !strings.Contains(err.Error(), nestedTransactionMsg) {
		return err
	}

	if _, err := conn.ExecContext(ctx, script); err != nil {
		rollback(ctx, conn)
		return err
	}
	return nil
}

// commit ends the batch transaction. A script that ends with its own COMMIT
// has already done so.
func commit(ctx context.Context, conn *sql.Conn) error {
	_, err := conn.ExecContext(ctx, "COMMIT")
	if err != nil && strings.Contains(err.Error(), noTransactionMsg) {
		return nil
	}
	return err
}

func rollback(ctx context.Context, conn *sql.Conn) {
	// fails harmlessly when no transaction is open
	_, _ = conn.ExecContext(ctx, "ROLLBACK")
}

// BootstrapSQLite loads the script at schemaPath and executes it against gdb.
func BootstrapSQLite(ctx context.Context, gdb *gorm.DB, schemaPath string, log *zap.SugaredLogger) error {
	script, err := LoadScript(schemaPath)
	if err != nil {
		return err
	}
	log.Debugf("bootstrap: executing %s (%d bytes)", schemaPath, len(script))
	if err := ExecScript(ctx, gdb, script); err != nil {
		return err
	}
	log.Infof("bootstrap: committed %s", schemaPath)
	return nil
}
