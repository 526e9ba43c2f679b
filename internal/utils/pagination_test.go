// internal/utils/pagination_test.go
package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func paramsForQuery(t *testing.T, rawQuery string) PaginationParams {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/products?"+rawQuery, nil)
	return GetPaginationParams(c, "expiry_date", "asc")
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, "expiry_date", params.Sort)
	assert.Equal(t, "asc", params.Order)
}

func TestGetPaginationParamsClampsBadValues(t *testing.T) {
	params := paramsForQuery(t, "page=-2&limit=5000&order=sideways")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, "asc", params.Order)
}

func TestGetPaginationParamsKeepsExplicitValues(t *testing.T) {
	params := paramsForQuery(t, "page=3&limit=50&sort=name&order=desc&search=lait&category=produits-laitiers")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, "name", params.Sort)
	assert.Equal(t, "desc", params.Order)
	assert.Equal(t, "lait", params.Search)
	assert.Equal(t, "produits-laitiers", params.Category)
	assert.Equal(t, 100, params.Offset())
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		DryRun: true,
	})
	require.NoError(t, err)

	return gdb
}

func TestApplySortFallsBackForUnknownField(t *testing.T) {
	params := PaginationParams{Page: 1, Limit: 20, Sort: "password_hash; DROP TABLE products", Order: "asc"}

	var rows []map[string]interface{}
	tx := ApplySort(dryRunDB(t).Table("products"), params, []string{"expiry_date", "name"}).Find(&rows)

	sql := tx.Statement.SQL.String()
	assert.Contains(t, sql, "ORDER BY expiry_date asc")
	assert.NotContains(t, sql, "DROP TABLE")
}

func TestCreatePaginationResultRoundsPagesUp(t *testing.T) {
	result := CreatePaginationResult(nil, 41, PaginationParams{Page: 1, Limit: 20})

	assert.EqualValues(t, 41, result.Total)
	assert.Equal(t, 3, result.TotalPages)
}
