// internal/handlers/handlers_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecorecettes/pantry-api/internal/config"
	"github.com/ecorecettes/pantry-api/internal/middleware"
	"github.com/ecorecettes/pantry-api/internal/services"
	"github.com/ecorecettes/pantry-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{AccessTokenTTL: 24, RefreshTokenTTL: 168},
		Inventory: config.InventoryConfig{
			ExpiringSoonDays: 3,
			PurgeAfterDays:   30,
			RecentDays:       7,
			RecentLimit:      5,
		},
	}
}

func newMockedGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	r := gin.New()
	r.GET("/v1/products", middleware.AuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteWithMalformedHeader(t *testing.T) {
	r := gin.New()
	r.GET("/v1/products", middleware.AuthRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteWithValidToken(t *testing.T) {
	utils.SetJWTSecret("handler-test-secret")
	userID := uuid.New()
	token, err := utils.GenerateJWT(userID, "marie@example.com", 1)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/v1/products", middleware.AuthRequired(), func(c *gin.Context) {
		id, ok := currentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["user_id"])
}

type referenceEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func TestGetCategoriesListsAllTen(t *testing.T) {
	h := NewInventoryHandler(nil, testConfig())

	r := gin.New()
	r.GET("/v1/categories", h.GetCategories)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []referenceEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 10)

	ids := make([]string, len(resp.Data))
	for i, entry := range resp.Data {
		ids[i] = entry.ID
		assert.NotEmpty(t, entry.Label)
	}
	assert.Contains(t, ids, "fruits-legumes")
	assert.Contains(t, ids, "autres")
}

func TestGetUnitsListsAllNine(t *testing.T) {
	h := NewInventoryHandler(nil, testConfig())

	r := gin.New()
	r.GET("/v1/units", h.GetUnits)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/units", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []referenceEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 9)

	ids := make([]string, len(resp.Data))
	for i, entry := range resp.Data {
		ids[i] = entry.ID
	}
	assert.Contains(t, ids, "unité")
	assert.Contains(t, ids, "kg")
}

func TestRegisterDuplicateEmailReturnsConflict(t *testing.T) {
	gdb, mock := newMockedGorm(t)
	h := NewAuthHandler(services.NewAuthService(gdb, testConfig()))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("marie@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(uuid.New(), "marie@example.com"))

	r := gin.New()
	r.POST("/v1/auth/register", h.Register)

	body := `{"email":"marie@example.com","password":"Potager2024","display_name":"Marie"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSummaryUsesConfiguredRecentLimit(t *testing.T) {
	gdb, mock := newMockedGorm(t)
	cfg := testConfig()
	cfg.Inventory.RecentLimit = 1
	h := NewInventoryHandler(services.NewInventoryService(gdb, nil, cfg), cfg)

	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products" WHERE user_id = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE user_id = $1 ORDER BY created_at desc LIMIT $2`)).
		WithArgs(userID, utils.MaxLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "expiry_date", "created_at"}).
			AddRow(uuid.New(), userID, "yaourt", now.Add(240*time.Hour), now.Add(-time.Hour)).
			AddRow(uuid.New(), userID, "lait", now.Add(240*time.Hour), now.Add(-2*time.Hour)))

	r := gin.New()
	r.GET("/v1/products/summary", func(c *gin.Context) {
		c.Set("user_id", userID.String())
		h.GetSummary(c)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/products/summary", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			TotalProducts  int               `json:"total_products"`
			RecentProducts []json.RawMessage `json:"recent_products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.TotalProducts)
	assert.Len(t, resp.Data.RecentProducts, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
