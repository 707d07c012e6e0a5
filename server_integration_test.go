package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(data)
}

func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")

	a, err := openApp(t.TempDir())
	require.NoError(t, err)
	a.seedAdmin()

	r := gin.New()
	a.setupRoutes(r)
	return r
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	resp := performRequest(r, http.MethodPost, "/login",
		jsonBody(t, map[string]string{"username": username, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register and login
	resp := performRequest(r, http.MethodPost, "/register",
		jsonBody(t, map[string]string{"username": "gestor", "password": "secret1"}), "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	token := login(t, r, "gestor", "secret1")

	// 2. Unauthorized access is rejected
	resp = performRequest(r, http.MethodGet, "/tenants", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// 3. Create a tenant
	resp = performRequest(r, http.MethodPost, "/tenants", jsonBody(t, map[string]any{
		"name":       "Ana García",
		"apartment":  "2B",
		"rent_amount": 850,
		"email":      "ana@example.com",
		"entry_date": "2025-09-01",
	}), token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var tenant map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tenant))
	tenantID := int(tenant["id"].(float64))
	require.Equal(t, 1, tenantID)

	// 4. Payment against an unknown tenant is rejected at write time
	resp = performRequest(r, http.MethodPost, "/payments", jsonBody(t, map[string]any{
		"tenant_id": 999, "amount": 850, "date": "2026-03-05",
	}), token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

	// 5. Valid payments
	for _, p := range []map[string]any{
		{"tenant_id": tenantID, "amount": 850, "date": "2026-03-05", "status": "Completado", "type": "Transferencia"},
		{"tenant_id": tenantID, "amount": 100, "date": "2026-03-12", "status": "Pendiente"},
	} {
		resp = performRequest(r, http.MethodPost, "/payments", jsonBody(t, p), token)
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	// 6. List payments with a status filter and check the aggregates
	resp = performRequest(r, http.MethodGet, "/payments?status=Todos", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	var listing struct {
		Items   []map[string]any `json:"items"`
		Summary struct {
			Count          int                `json:"count"`
			Total          float64            `json:"total"`
			AmountByStatus map[string]float64 `json:"amount_by_status"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Equal(t, 2, listing.Summary.Count)
	assert.InDelta(t, 950, listing.Summary.Total, 0.001)
	assert.InDelta(t, 100, listing.Summary.AmountByStatus["Pendiente"], 0.001)
	require.Len(t, listing.Items, 2)
	assert.Equal(t, "Ana García", listing.Items[0]["tenant_name"])

	// 7. Free-text search narrows the set
	resp = performRequest(r, http.MethodGet, "/payments?q=garc", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Equal(t, 2, listing.Summary.Count)

	// 8. Bad date bound in a filter is ignored, not an error
	resp = performRequest(r, http.MethodGet, "/payments?date_from=banana", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Equal(t, 2, listing.Summary.Count)

	// 9. Expense validation failure persists nothing
	resp = performRequest(r, http.MethodPost, "/expenses", jsonBody(t, map[string]any{
		"amount": 50, "category": "Fiestas", "description": "x",
	}), token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	resp = performRequest(r, http.MethodGet, "/expenses", nil, token)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listing))
	assert.Equal(t, 0, listing.Summary.Count)

	// 10. Valid expense + CSV export
	resp = performRequest(r, http.MethodPost, "/expenses", jsonBody(t, map[string]any{
		"amount": 120.5, "category": "Limpieza", "description": "limpieza portal", "date": "2026-03-02",
	}), token)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = performRequest(r, http.MethodGet, "/expenses/export", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Body.String(), "Limpieza")
	assert.Contains(t, resp.Body.String(), "120,50 €")

	// 11. Dashboard
	resp = performRequest(r, http.MethodGet, "/dashboard", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	var overview map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &overview))
	assert.Contains(t, overview, "month_income")
	assert.Contains(t, overview, "pending_payments")

	// 12. Update and delete round trip
	resp = performRequest(r, http.MethodPut, fmt.Sprintf("/tenants/%d", tenantID), jsonBody(t, map[string]any{
		"name": "Ana García", "apartment": "2B", "rent_amount": 900,
	}), token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = performRequest(r, http.MethodDelete, "/payments/2", nil, token)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp = performRequest(r, http.MethodDelete, "/payments/2", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRegisterStatusCodes(t *testing.T) {
	r := setupTestServer(t)

	// Validation failures are the client's problem, not a conflict.
	resp := performRequest(r, http.MethodPost, "/register",
		jsonBody(t, map[string]string{"username": "vecino", "password": "abc"}), "")
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	resp = performRequest(r, http.MethodPost, "/register",
		jsonBody(t, map[string]string{"username": "   ", "password": "secret1"}), "")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Only a duplicate username conflicts.
	resp = performRequest(r, http.MethodPost, "/register",
		jsonBody(t, map[string]string{"username": "vecino", "password": "secret1"}), "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	resp = performRequest(r, http.MethodPost, "/register",
		jsonBody(t, map[string]string{"username": "vecino", "password": "secret1"}), "")
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestSeededAdminCanLogin(t *testing.T) {
	r := setupTestServer(t)
	token := login(t, r, "admin", "admin123")

	resp := performRequest(r, http.MethodGet, "/dashboard", nil, token)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMissingEntityReturns404(t *testing.T) {
	r := setupTestServer(t)
	token := login(t, r, "admin", "admin123")

	for _, path := range []string{"/tenants/77", "/payments/77", "/expenses/77"} {
		resp := performRequest(r, http.MethodGet, path, nil, token)
		assert.Equal(t, http.StatusNotFound, resp.Code, path)
	}
}
