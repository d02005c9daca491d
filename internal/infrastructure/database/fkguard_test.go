package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

func setupGuardDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the PRAGMA applied to every statement.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.Exec("CREATE TABLE parents (id TEXT PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("CREATE TABLE children (id TEXT PRIMARY KEY, parent_id TEXT NOT NULL REFERENCES parents(id))").Error)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func TestForeignKeyGuard_RelaxesWithinWindow(t *testing.T) {
	db := setupGuardDB(t)
	guard := NewForeignKeyGuard(db, logger.NewLogger())

	// Orphaned child rejected while enforcement is on.
	err := db.Exec("INSERT INTO children (id, parent_id) VALUES ('c0', 'missing')").Error
	require.Error(t, err)

	err = guard.WithRelaxedChecks(t.Context(), func(conn *gorm.DB) error {
		return conn.Exec("INSERT INTO children (id, parent_id) VALUES ('c1', 'not-yet-created')").Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM children").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestForeignKeyGuard_RestoresAfterSuccess(t *testing.T) {
	db := setupGuardDB(t)
	guard := NewForeignKeyGuard(db, logger.NewLogger())

	err := guard.WithRelaxedChecks(t.Context(), func(conn *gorm.DB) error {
		return nil
	})
	require.NoError(t, err)

	err = db.Exec("INSERT INTO children (id, parent_id) VALUES ('c2', 'missing')").Error
	assert.Error(t, err, "enforcement should be back on after the window closes")
}

func TestForeignKeyGuard_RestoresAfterError(t *testing.T) {
	db := setupGuardDB(t)
	guard := NewForeignKeyGuard(db, logger.NewLogger())

	err := guard.WithRelaxedChecks(t.Context(), func(conn *gorm.DB) error {
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	err = db.Exec("INSERT INTO children (id, parent_id) VALUES ('c3', 'missing')").Error
	assert.Error(t, err)
}

func TestForeignKeyGuard_RestoresAfterPanic(t *testing.T) {
	db := setupGuardDB(t)
	guard := NewForeignKeyGuard(db, logger.NewLogger())

	assert.Panics(t, func() {
		_ = guard.WithRelaxedChecks(t.Context(), func(conn *gorm.DB) error {
			panic("pass blew up")
		})
	})

	err := db.Exec("INSERT INTO children (id, parent_id) VALUES ('c4', 'missing')").Error
	assert.Error(t, err)
}
