package migrations

import (
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/gravadigital/orbitview-api/internal/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	logger.InitializeWithWriter(io.Discard, "error")

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGetMigrations_OrderedAndComplete(t *testing.T) {
	all := GetMigrations()
	require.NotEmpty(t, all)

	for i, m := range all {
		assert.NotEmpty(t, m.Name)
		assert.NotNil(t, m.Up, m.ID)
		assert.NotNil(t, m.Down, m.ID)
		if i > 0 {
			assert.Less(t, all[i-1].ID, m.ID)
		}
	}
}

func TestPending_SkipsRecordedMigrations(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, name, applied_at FROM schema_migrations ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "applied_at"}).
			AddRow("001", "enable_extensions", time.Now()).
			AddRow("002", "create_core_tables", time.Now()))

	pending, err := Pending(db)
	require.NoError(t, err)
	require.Len(t, pending, len(GetMigrations())-2)
	assert.Equal(t, "003", pending[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackMigration_NothingApplied(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, name, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "applied_at"}))

	err := RollbackMigration(db)
	assert.EqualError(t, err, "no migrations to rollback")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollbackMigration_UnknownID(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, name, applied_at FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "applied_at"}).
			AddRow("999", "from_a_newer_build", time.Now()))

	err := RollbackMigration(db)
	assert.EqualError(t, err, "migration 999 not found")
}
