package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatvault/chatvault/internal/registry"
)

func TestListJobs(t *testing.T) {
	reg := registry.New()
	require.True(t, reg.TryAcquire("chan2"))
	require.True(t, reg.TryAcquire("chan1"))

	rec := httptest.NewRecorder()
	NewJobsHandler(reg).ListJobs(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Active []string `json:"active"`
		Count  int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"chan1", "chan2"}, body.Active, "listing is sorted")
	assert.Equal(t, 2, body.Count)
}

func TestListJobsEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	NewJobsHandler(registry.New()).ListJobs(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	var body struct {
		Active []string `json:"active"`
		Count  int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Active)
	assert.Equal(t, 0, body.Count)
}
