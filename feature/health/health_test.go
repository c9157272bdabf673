package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"catalog-sync/core/connection"
	"catalog-sync/core/database"
	"catalog-sync/core/jobs"
	"catalog-sync/core/platform"
	"catalog-sync/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type staticChecker []connection.Status

func (s staticChecker) Check(context.Context) []connection.Status { return s }

var models = []any{&jobs.Record{}, &connection.Record{}}

func setupSQLite(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })
	if migrate {
		require.NoError(t, database.Migrate(db, models...))
	}
	return db
}

// setupMockDB creates a mock GORM DB whose pings can be scripted.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func TestCheckStorage(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		svc := NewService(nil, "catalog-exports", nil, nil, nil, zap.NewNop())
		assert.Equal(t, StatusDisabled, svc.CheckStorage(context.Background()).Status)
	})

	t.Run("Bucket Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog-exports").Return(true, nil)
		svc := NewService(client, "catalog-exports", nil, nil, nil, zap.NewNop())

		assert.Equal(t, ComponentReport{Status: StatusOK}, svc.CheckStorage(context.Background()))
	})

	t.Run("Bucket Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog-exports").Return(false, nil)
		svc := NewService(client, "catalog-exports", nil, nil, nil, zap.NewNop())

		r := svc.CheckStorage(context.Background())
		assert.Equal(t, StatusOK, r.Status)
		assert.Equal(t, []string{"catalog-exports"}, r.Missing)
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog-exports").Return(false, errors.New("dial tcp: refused"))
		svc := NewService(client, "catalog-exports", nil, nil, nil, zap.NewNop())

		r := svc.CheckStorage(context.Background())
		assert.Equal(t, StatusError, r.Status)
		assert.Contains(t, r.Error, "refused")
	})
}

func TestCheckDatabase(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		svc := NewService(nil, "", nil, models, nil, zap.NewNop())
		assert.Equal(t, StatusDisabled, svc.CheckDatabase(context.Background()).Status)
	})

	t.Run("Migrated", func(t *testing.T) {
		svc := NewService(nil, "", setupSQLite(t, true), models, nil, zap.NewNop())
		assert.Equal(t, ComponentReport{Status: StatusOK}, svc.CheckDatabase(context.Background()))
	})

	t.Run("Not Migrated", func(t *testing.T) {
		svc := NewService(nil, "", setupSQLite(t, false), models, nil, zap.NewNop())

		r := svc.CheckDatabase(context.Background())
		assert.Equal(t, StatusError, r.Status)
		assert.ElementsMatch(t, []string{"sync_jobs", "connections"}, r.Missing)
	})

	t.Run("Ping Failure", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectPing().WillReturnError(errors.New("server has gone away"))
		svc := NewService(nil, "", db, models, nil, zap.NewNop())

		r := svc.CheckDatabase(context.Background())
		assert.Equal(t, StatusError, r.Status)
		assert.Contains(t, r.Error, "gone away")
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestCheck_Aggregate(t *testing.T) {
	checker := staticChecker{
		{Platform: platform.WooCommerce, Connected: true},
		{Platform: platform.Shopify, Error: "shopify: not connected"},
	}

	t.Run("Healthy With Disconnected Platform", func(t *testing.T) {
		svc := NewService(nil, "", setupSQLite(t, true), models, checker, zap.NewNop())

		r := svc.Check(context.Background())
		assert.Equal(t, StatusOK, r.Status)
		assert.Len(t, r.Connections, 2)
		assert.False(t, r.CheckedAt.IsZero())
	})

	t.Run("Degraded", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog-exports").Return(false, errors.New("timeout"))
		svc := NewService(client, "catalog-exports", nil, models, checker, zap.NewNop())

		assert.Equal(t, StatusDegraded, svc.Check(context.Background()).Status)
	})
}

func TestHandlers(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "catalog-exports").Return(false, errors.New("timeout"))
	checker := staticChecker{{Platform: platform.WooCommerce, Connected: true}}
	svc := NewService(client, "catalog-exports", setupSQLite(t, true), models, checker, zap.NewNop())

	feature := NewFeature(svc)
	assert.Equal(t, "health", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	tests := []struct {
		path   string
		status int
	}{
		{"/health", fiber.StatusServiceUnavailable},
		{"/health/storage", fiber.StatusServiceUnavailable},
		{"/health/database", fiber.StatusOK},
		{"/health/connections", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/health/connections", nil))
	require.NoError(t, err)
	var statuses []connection.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statuses))
	assert.Equal(t, []connection.Status{{Platform: platform.WooCommerce, Connected: true}}, statuses)
}
