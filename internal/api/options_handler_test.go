package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styleshift/styleshift-api/internal/domain"
)

func TestOptionsReturnsCatalogue(t *testing.T) {
	rec := httptest.NewRecorder()
	NewOptionsHandler().Options(rec, httptest.NewRequest(http.MethodGet, "/api/options", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var options []domain.StyleOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	assert.Len(t, options, len(domain.StyleOptions))

	ids := make([]string, 0, len(options))
	for _, o := range options {
		ids = append(ids, o.ID)
	}
	assert.Contains(t, ids, "ghibli")
	assert.Contains(t, ids, "eiffel")
}

func TestOptionsFiltersByCategory(t *testing.T) {
	rec := httptest.NewRecorder()
	NewOptionsHandler().Options(rec, httptest.NewRequest(http.MethodGet, "/api/options?category=location", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var options []domain.StyleOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &options))
	require.NotEmpty(t, options)
	for _, o := range options {
		assert.Equal(t, domain.StyleCategoryLocation, o.Category)
	}
}

func TestHealthReportsOK(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(8787).Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 8787, resp.Port)
}
