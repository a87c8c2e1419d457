package persistence

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	apptrade "github.com/sarva/backend/internal/application/trade"
	"github.com/sarva/backend/internal/domain/catalog"
	"github.com/sarva/backend/internal/domain/identity"
	"github.com/sarva/backend/internal/domain/trade"
	"github.com/sarva/backend/internal/infrastructure/config"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"github.com/sarva/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "sarva.db"),
	}
	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DB.AutoMigrate(models.All()...))
	assert.NoError(t, db.Ping())

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()
	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	assert.NoError(t, err)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
	assert.Equal(t, time.Duration(0), stats.WaitDuration)
}

func TestGormTransactionScope_RollsBackOnStoreFailure(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	scope := NewGormTransactionScope(db.DB)

	storeErr := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sale_line_items"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "sales"`).
		WillReturnError(storeErr)
	mock.ExpectRollback()

	err := scope.Execute(context.Background(), func(repos apptrade.TransactionalRepositories) error {
		if err := repos.SaleLines().Delete(context.Background(), trade.SaleLineKey{ProductCode: 1, CycleID: 2, SaleID: 3}); err != nil {
			return err
		}
		return repos.Sales().Delete(context.Background(), 3)
	})
	assert.ErrorIs(t, err, storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_DiscardsWritesOnError(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	scope := NewGormTransactionScope(db)
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	err := scope.Execute(context.Background(), func(repos apptrade.TransactionalRepositories) error {
		company, err := catalog.NewCompany("Natura", identity.New("admin", identity.RoleAdmin), now)
		if err != nil {
			return err
		}
		if err := repos.Companies().Save(context.Background(), company); err != nil {
			return err
		}
		assert.NotZero(t, company.ID)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int64
	require.NoError(t, db.Model(&models.CompanyModel{}).Count(&count).Error)
	assert.Zero(t, count)
}
