// Package setup runs the reset, initialize and report sequence against a
// single database handle.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hospitaldb/config"
	"hospitaldb/db"
	"hospitaldb/report"
)

type Options struct {
	DBPath     string
	SchemaPath string
	Driver     string
	Backup     db.BackupPolicy
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		DBPath:     cfg.DBPath,
		SchemaPath: cfg.SchemaPath,
		Driver:     cfg.Driver,
		Backup:     db.BackupPolicy{Enabled: cfg.Backup, MaxBackups: cfg.MaxBackups},
	}
}

// Run recreates the database at opts.DBPath from the script at
// opts.SchemaPath and prints the report to out.
//
// Any failure is printed once as "[ERROR]: <message>" and nothing after the
// failing step runs. The database handle, once opened, is closed on every
// path. The error is returned for callers that want it.
func Run(ctx context.Context, opts Options, out io.Writer, log *zap.SugaredLogger) (err error) {
	defer func() {
		if err != nil {
			log.Errorf("setup: %v", err)
			report.PrintError(out, err)
		}
	}()

	if err := db.ResetDatabase(opts.DBPath, opts.Backup, log); err != nil {
		return err
	}
	gdb, err := db.Open(opts.DBPath, opts.Driver, log)
	if err != nil {
		return err
	}
	defer release(gdb, log)

	if err := db.BootstrapSQLite(ctx, gdb, opts.SchemaPath, log); err != nil {
		return err
	}
	report.PrintCreated(out)

	if err := report.New(db.NewSQLStore(gdb), out, log).Run(ctx); err != nil {
		return err
	}
	report.PrintCompleted(out, opts.DBPath)
	return nil
}

// Report prints the report for an existing database without resetting it.
func Report(ctx context.Context, opts Options, out io.Writer, log *zap.SugaredLogger) (err error) {
	defer func() {
		if err != nil {
			log.Errorf("report: %v", err)
			report.PrintError(out, err)
		}
	}()

	if _, err := os.Stat(opts.DBPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("database %s does not exist", opts.DBPath)
		}
		return err
	}
	gdb, err := db.Open(opts.DBPath, opts.Driver, log)
	if err != nil {
		return err
	}
	defer release(gdb, log)

	store := db.NewSQLStore(gdb)
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("database %s is not readable: %w", opts.DBPath, err)
	}
	return report.New(store, out, log).Run(ctx)
}

func release(gdb *gorm.DB, log *zap.SugaredLogger) {
	if err := db.Close(gdb); err != nil {
		log.Warnf("failed to close database: %v", err)
	}
}
