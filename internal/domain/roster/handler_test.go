package roster

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	NewHandler(testDirectory(t)).RegisterRoutes(e.Group("/api/v1"))
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

type listResponse struct {
	Data  []*Patient `json:"data"`
	Total int        `json:"total"`
}

func TestListPatients(t *testing.T) {
	e := newTestServer(t)

	rec := get(e, "/api/v1/patients")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Total)
	assert.Len(t, resp.Data, 5)
	assert.Equal(t, "P001", resp.Data[0].ID)
}

func TestListPatientsFiltered(t *testing.T) {
	e := newTestServer(t)

	rec := get(e, "/api/v1/patients?condition=diabetes&age_group=elderly")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "P003", resp.Data[0].ID)
}

func TestListPatientsEmptyResultIsOK(t *testing.T) {
	e := newTestServer(t)

	rec := get(e, "/api/v1/patients?q=unmatchable")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Data)
}

func TestListPatientsPagination(t *testing.T) {
	e := newTestServer(t)

	rec := get(e, "/api/v1/patients?limit=2&offset=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Total)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "P003", resp.Data[0].ID)
}

func TestGetPatient(t *testing.T) {
	e := newTestServer(t)

	rec := get(e, "/api/v1/patients/P002")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sarah Chen")

	rec = get(e, "/api/v1/patients/P999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
