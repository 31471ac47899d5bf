// Package pgtest opens throwaway in-memory databases for repository tests.
package pgtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"census-app-go/internal/db"
	"census-app-go/internal/domain/reference"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns a migrated sqlite database seeded with the default census types.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:census_test_%d?mode=memory&cache=shared", seq.Add(1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gormDB.AutoMigrate(db.Models()...), "migrate")

	types := reference.DefaultCensusTypes()
	require.NoError(t, gormDB.Create(&types).Error, "seed census types")
	return gormDB
}
