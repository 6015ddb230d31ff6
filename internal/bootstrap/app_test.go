package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"readiness-backend/internal/bootstrap"
	"readiness-backend/internal/shared/config"
)

const session = `{
	"subjectId": "crew-0042",
	"responses": [
		{"question": "p1", "category": "physical", "answer": 5},
		{"question": "p2", "category": "physical", "answer": 4},
		{"question": "m1", "category": "mental", "answer": 3},
		{"question": "m2", "category": "mental", "answer": 4},
		{"question": "Have you completed all required certification courses?", "category": "certification", "answer": "yes"},
		{"question": "Any past incidents?", "category": "behavior", "answer": false},
		{"question": "How are you feeling today?", "answer": "ready to go",
		 "sentiment": {"optimism": 12.5, "joy": 40, "neutral": 30},
		 "moderation": {"toxic": 0.002}}
	]
}`

func TestAssessmentRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Env:             "test",
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		ObjectStoreType: "local",
		ReportIndex:     "memory",
		Scoring:         config.DefaultScoring(),
	}

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })
	router := app.Router

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", bytes.NewBufferString(session))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		ReportID string `json:"reportId"`
		Report   string `json:"report"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ReportID == "" {
		t.Fatalf("expected reportId, got empty")
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+created.ReportID, nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	var stored struct {
		StorageProvider string `json:"storageProvider"`
		StorageKey      string `json:"storageKey"`
		Text            string `json:"text"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&stored); err != nil {
		t.Fatalf("decode report response: %v", err)
	}
	if stored.StorageProvider != "local" || !strings.HasPrefix(stored.StorageKey, "reports/") || stored.Text != created.Report {
		t.Fatalf("unexpected stored report %+v", stored)
	}

	reqText := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+created.ReportID+"/text", nil)
	respText := httptest.NewRecorder()
	router.ServeHTTP(respText, reqText)
	if respText.Code != http.StatusOK || respText.Body.String() != created.Report {
		t.Fatalf("unexpected text response %d", respText.Code)
	}
	if ct := respText.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestUnknownReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(context.Background(), config.Config{Env: "test", LocalStoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	for path, want := range map[string]int{
		"/api/v1/reports/5f0c6a52-3f0e-4d55-9a31-1c9f3e0b7a10": http.StatusNotFound,
		"/api/v1/reports/not-a-uuid":                           http.StatusBadRequest,
	} {
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, resp.Code)
		}
	}
}

func TestProductionRequiresDatabase(t *testing.T) {
	cfg := config.Config{Env: "production", LocalStoreDir: t.TempDir(), ReportIndex: "postgres"}
	if _, err := bootstrap.Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}
