package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var seedScriptPath = filepath.Join("..", "healthcare_schema.sql")

func testLogger(t *testing.T) *zap.SugaredLogger {
	return zaptest.NewLogger(t).Sugar()
}

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T, driver string) *gorm.DB {
	gdb, err := Open(":memory:", driver, testLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	return gdb
}

// setupSeededDB creates an in-memory database loaded with the shipped seed script
func setupSeededDB(t *testing.T, driver string) *gorm.DB {
	gdb := setupTestDB(t, driver)
	require.NoError(t, BootstrapSQLite(context.Background(), gdb, seedScriptPath, testLogger(t)))
	return gdb
}

var drivers = []string{DriverCGO, DriverPure}
