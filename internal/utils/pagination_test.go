// internal/utils/pagination_test.go
package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsClamping(t *testing.T) {
	params := paramsForQuery(t, "page=-3&limit=5000&order=sideways")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsPassthrough(t *testing.T) {
	params := paramsForQuery(t, "page=3&limit=50&sort=price&order=asc&search=lamp")

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 50, params.Limit)
	assert.Equal(t, "price", params.Sort)
	assert.Equal(t, "asc", params.Order)
	assert.Equal(t, "lamp", params.Search)
}

func TestCreatePaginationResult(t *testing.T) {
	result := CreatePaginationResult([]string{"a"}, 41, PaginationParams{Page: 2, Limit: 20})

	assert.Equal(t, int64(41), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.Page)
}
