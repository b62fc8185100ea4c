package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interworky/error-tracker/internal/db"
	"github.com/interworky/error-tracker/internal/model"
	"github.com/interworky/error-tracker/internal/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *db.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := db.NewMemory()
	router := NewRouter(RouterConfig{
		Ingest:             NewIngestHandler(service.NewIngestService(store, store, nil, 50)),
		Incidents:          NewIncidentHandler(service.NewIncidentService(store, store)),
		Logger:             zerolog.New(io.Discard),
		CORSAllowedOrigins: []string{"https://shop.example.com"},
	})
	return router, store
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func reportBody(msg string) map[string]any {
	return map[string]any{
		"category":        "unhandled_exception",
		"message":         msg,
		"source_file":     "app.js",
		"line_number":     42,
		"url":             "https://shop.example.com/cart",
		"user_agent":      "Mozilla/5.0",
		"organization_id": "t1",
		"assistant_id":    "a1",
		"session_id":      "s1",
		"error_source":    map[string]any{"origin": "client_website"},
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestIngestErrorCreatedThenDuplicate(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/errors", reportBody("TypeError: x is undefined"))
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode[model.IngestResult](t, w)
	assert.False(t, first.IsDuplicate)
	assert.Equal(t, model.SeverityHigh, first.Severity)

	w = doJSON(t, r, http.MethodPost, "/api/v1/errors", reportBody("TypeError: x is undefined"))
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[model.IngestResult](t, w)
	assert.True(t, second.IsDuplicate)
	assert.Equal(t, first.IncidentID, second.IncidentID)
	assert.Equal(t, int64(2), second.OccurrenceCount)
}

func TestIngestErrorValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	body := reportBody("boom")
	delete(body, "url")
	w := doJSON(t, r, http.MethodPost, "/api/v1/errors", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[model.ErrorResponse](t, w)
	assert.Contains(t, resp.Fields, "url")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/errors", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestBatchEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	reports := make([]map[string]any, 0, 10)
	for i := 0; i < 10; i++ {
		reports = append(reports, reportBody(fmt.Sprintf("TypeError: f%d is undefined", i)))
	}
	reports[5]["category"] = "not_a_category"

	w := doJSON(t, r, http.MethodPost, "/api/v1/errors/batch", map[string]any{"errors": reports, "batch_id": "b-7"})
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, float64(1), raw["failedCount"])

	res := decode[model.BatchResult](t, w)
	assert.Equal(t, "b-7", res.BatchID)
	assert.Len(t, res.Processed, 9)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 5, res.Failed[0].Index)
	assert.Contains(t, res.Failed[0].Field, "category")
}

func TestIngestBatchEndpointIsolatesTypeErrors(t *testing.T) {
	r, store := newTestRouter(t)

	reports := make([]any, 0, 10)
	for i := 0; i < 9; i++ {
		reports = append(reports, reportBody(fmt.Sprintf("TypeError: f%d is undefined", i)))
	}
	bad := reportBody("TypeError: bad is undefined")
	bad["line_number"] = "forty-two"
	reports = append(reports, bad)

	w := doJSON(t, r, http.MethodPost, "/api/v1/errors/batch", map[string]any{"errors": reports})
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[model.BatchResult](t, w)
	assert.Len(t, res.Processed, 9)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 9, res.Failed[0].Index)
	assert.Contains(t, res.Failed[0].Field, "line_number")

	list, err := store.ListIncidents(t.Context(), "t1", 100)
	require.NoError(t, err)
	assert.Len(t, list, 9)
}

func TestIngestBatchTooLarge(t *testing.T) {
	r, _ := newTestRouter(t)

	reports := make([]map[string]any, 0, 51)
	for i := 0; i < 51; i++ {
		reports = append(reports, reportBody("x"))
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/errors/batch", map[string]any{"errors": reports})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/errors/batch", map[string]any{"errors": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIncidentLifecycleEndpoints(t *testing.T) {
	r, store := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/errors", reportBody("TypeError: x is undefined"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[model.IngestResult](t, w).IncidentID

	w = doJSON(t, r, http.MethodGet, "/api/v1/incidents/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode[model.IncidentEnvelope](t, w)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, model.StatusNew, env.Data.Status)

	// carla_fixing 이 아니면 결과 보고는 충돌
	w = doJSON(t, r, http.MethodPost, "/api/v1/incidents/"+id+"/remediation", map[string]any{"status": "pr_created"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/incidents/"+id+"/remediation", map[string]any{"status": "resolved"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ok, err := store.TransitionStatus(t.Context(), id, []model.Status{model.StatusNew}, model.StatusCarlaFixing)
	require.NoError(t, err)
	require.True(t, ok)

	w = doJSON(t, r, http.MethodPost, "/api/v1/incidents/"+id+"/remediation", map[string]any{
		"status":    "issue_created",
		"issue_url": "https://github.com/acme/shop/issues/3",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusIssueCreated, decode[model.IncidentEnvelope](t, w).Data.Status)

	w = doJSON(t, r, http.MethodPost, "/api/v1/incidents/"+id+"/resolve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusResolved, decode[model.IncidentEnvelope](t, w).Data.Status)

	w = doJSON(t, r, http.MethodPost, "/api/v1/incidents/"+id+"/ignore", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/incidents?organization_id=t1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[model.IncidentListEnvelope](t, w).Data, 1)

	w = doJSON(t, r, http.MethodGet, "/api/v1/incidents", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/incidents/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteByFingerprintEndpoint(t *testing.T) {
	r, store := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/errors", reportBody("TypeError: x is undefined"))
	require.Equal(t, http.StatusCreated, w.Code)
	inc, err := store.GetIncident(t.Context(), decode[model.IngestResult](t, w).IncidentID)
	require.NoError(t, err)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/organizations/t1/fingerprints/"+inc.Fingerprint, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[model.DeleteFingerprintResponse](t, w).Deleted)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/organizations/t1/fingerprints/"+inc.Fingerprint, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemediationConfigEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/organizations/t1/remediation-config", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/organizations/t1/remediation-config", map[string]any{
		"auto_fix_enabled":       true,
		"github_installation_id": "42",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cfg := decode[model.RemediationConfig](t, w)
	assert.Equal(t, "t1", cfg.OrganizationID)
	assert.True(t, cfg.AutoFixEnabled)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/errors", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/errors/batch", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthAndDocs(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode[model.PingResponse](t, w).Message)

	w = doJSON(t, r, http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[map[string]any](t, w)
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/api/v1/errors/batch")

	w = doJSON(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
