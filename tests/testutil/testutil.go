// Package testutil provides common test utilities for the sarva backend.
// It contains helpers for opening test databases, seeding catalog and customer
// rows, and driving gin handlers.
package testutil

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sarva/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestUserID is the seller used by tests unless they need a second user
const TestUserID = "seller-1"

// TestAdminID is the administrator used by tests
const TestAdminID = "admin-1"

// NewSQLiteDB opens a private in-memory sqlite database with every table migrated.
// The pool is limited to one connection so the database lives as long as the test.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "Failed to open sqlite database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "Failed to migrate test schema")
	return db
}

// Fixture seeds catalog and customer rows directly through the models
type Fixture struct {
	t   *testing.T
	DB  *gorm.DB
	Now time.Time
}

// NewFixture creates a Fixture that stamps rows with now
func NewFixture(t *testing.T, db *gorm.DB, now time.Time) *Fixture {
	return &Fixture{t: t, DB: db, Now: now}
}

// Company inserts an active company
func (f *Fixture) Company(razaoSocial string) *models.CompanyModel {
	f.t.Helper()
	m := &models.CompanyModel{
		BaseModel:   models.BaseModel{CreatedAt: f.Now, UpdatedAt: f.Now},
		RazaoSocial: razaoSocial,
		OwnerUserID: "admin",
		Active:      true,
	}
	require.NoError(f.t, f.DB.Create(m).Error)
	return m
}

// OpenCycle inserts a cycle of the company open from a week before Now to a week after
func (f *Fixture) OpenCycle(company *models.CompanyModel, nome string) *models.CycleModel {
	return f.Cycle(company, nome, f.Now.AddDate(0, 0, -7), f.Now.AddDate(0, 0, 7))
}

// Cycle inserts a cycle of the company
func (f *Fixture) Cycle(company *models.CompanyModel, nome string, start, end time.Time) *models.CycleModel {
	f.t.Helper()
	m := &models.CycleModel{
		BaseModel:  models.BaseModel{CreatedAt: f.Now, UpdatedAt: f.Now},
		Nome:       nome,
		DataInicio: start,
		DataFim:    end,
		CompanyID:  company.ID,
	}
	require.NoError(f.t, f.DB.Create(m).Error)
	return m
}

// Product inserts an approved product of the cycle
func (f *Fixture) Product(cycle *models.CycleModel, codigo int64, nome, valor string) *models.ProductModel {
	f.t.Helper()
	m := &models.ProductModel{
		Codigo:    codigo,
		CycleID:   cycle.ID,
		CompanyID: cycle.CompanyID,
		Nome:      nome,
		Valor:     decimal.RequireFromString(valor),
		Approved:  true,
		CreatedAt: f.Now,
		UpdatedAt: f.Now,
	}
	require.NoError(f.t, f.DB.Create(m).Error)
	return m
}

// Customer inserts a neutral customer owned by userID
func (f *Fixture) Customer(userID, nome string) *models.CustomerModel {
	f.t.Helper()
	m := &models.CustomerModel{
		BaseModel: models.BaseModel{CreatedAt: f.Now, UpdatedAt: f.Now},
		Nome:      nome,
		Email:     "cliente@example.com",
		UserID:    userID,
		ScoreTier: 3,
	}
	require.NoError(f.t, f.DB.Create(m).Error)
	return m
}

// Count returns the number of rows of model
func (f *Fixture) Count(model any) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.DB.Model(model).Count(&n).Error)
	return n
}
