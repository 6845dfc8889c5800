package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/claimflow/internal/api"
	"github.com/JaimeStill/claimflow/internal/config"
	"github.com/JaimeStill/claimflow/internal/infrastructure"
	"github.com/JaimeStill/claimflow/internal/workflow"
	"github.com/JaimeStill/claimflow/pkg/module"
)

func newModule(t *testing.T) *module.Module {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("CLAIMFLOW_LOG_LEVEL", "error")
	t.Setenv("CLAIMFLOW_STORAGE_DIRECTORY", t.TempDir())
	t.Setenv("CLAIMFLOW_ESTIMATOR_SEED", "11")
	t.Setenv("CLAIMFLOW_API_PUBLIC_URL", "https://claims.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	infra, err := infrastructure.New(cfg)
	require.NoError(t, err)
	require.NoError(t, infra.Start())
	t.Cleanup(func() { infra.Lifecycle.Shutdown(5 * time.Second) })

	m, err := api.NewModule(cfg, infra)
	require.NoError(t, err)
	return m
}

func TestClaimRoundTrip(t *testing.T) {
	m := newModule(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("policy_id", "POL002"))
	part, err := w.CreateFormFile("image", "bumper.jpg")
	require.NoError(t, err)
	part.Write([]byte("jpeg"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/claims", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var claim workflow.Claim
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&claim))
	assert.Equal(t, "https://claims.example.com/api/claims/"+claim.ClaimID.String()+"/document", claim.Document.URL)

	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/api/claims/"+claim.ClaimID.String()+"/document", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}

func TestToolRoutes(t *testing.T) {
	m := newModule(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tools/payout",
		strings.NewReader(`{"policy_id":"POL001","damage_type":"collision","estimated_cost":"5000"}`))
	req.Header.Set("Content-Type", "application/json")
	m.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "4500", result["payout_amount"])
	assert.Equal(t, "approved", result["status"])

	rec = httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/api/policies", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	m := newModule(t)

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest("GET", "/api/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
