package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/nexus-manager/backend/internal/ai"
	"github.com/nexus-manager/backend/internal/models"
	"github.com/nexus-manager/backend/internal/service"
	"github.com/nexus-manager/backend/internal/store"
	"github.com/nexus-manager/backend/internal/trello"
)

func newTestHandler(t *testing.T) (*Handler, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.New(filepath.Join(t.TempDir(), "state.json"), zerolog.Nop())
	client := &trello.Client{}
	factory := ai.NewMock()
	h := &Handler{
		Store:     st,
		Trello:    client,
		Auditor:   &service.Auditor{Store: st, Trello: client, AI: factory, Logger: zerolog.Nop()},
		Advisor:   &service.Advisor{Store: st, AI: factory, Logger: zerolog.Nop()},
		Validator: validator.New(),
		Logger:    zerolog.Nop(),
	}
	return h, st
}

func perform(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, w.Body.String())
	}
	return envelope.Error.Code
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.GET("/healthz", h.Healthz)

	w := perform(t, r, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGetStateReturnsSeededSnapshot(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.GET("/api/state", h.GetState)

	w := perform(t, r, http.MethodGet, "/api/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var state models.GlobalState
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(state.Team) == 0 || len(state.Projects) == 0 {
		t.Fatalf("expected seeded team and projects, got %d/%d", len(state.Team), len(state.Projects))
	}
}

func TestCreateTeamMember(t *testing.T) {
	h, st := newTestHandler(t)
	r := gin.New()
	r.POST("/api/team", h.CreateTeamMember)

	w := perform(t, r, http.MethodPost, "/api/team", map[string]any{
		"name": "Bruno", "role": "Designer",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.TeamMember
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode member: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created member has no id")
	}

	found := false
	for _, m := range st.State().Team {
		if m.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("member not persisted")
	}
}

func TestCreateTeamMemberRequiresName(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.POST("/api/team", h.CreateTeamMember)

	w := perform(t, r, http.MethodPost, "/api/team", map[string]any{"role": "Designer"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if code := errorCode(t, w); code != "INVALID_REQUEST" {
		t.Fatalf("error code = %q", code)
	}
}

func TestUpdateUnknownMemberIs404(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.PUT("/api/team/:id", h.UpdateTeamMember)

	w := perform(t, r, http.MethodPut, "/api/team/ghost", map[string]any{"name": "Ghost"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if code := errorCode(t, w); code != "NOT_FOUND" {
		t.Fatalf("error code = %q", code)
	}
}

func TestUpdateTrelloConfigValidation(t *testing.T) {
	h, st := newTestHandler(t)
	r := gin.New()
	r.PUT("/api/settings/trello", h.UpdateTrelloConfig)

	w := perform(t, r, http.MethodPut, "/api/settings/trello", map[string]any{"apiKey": "k"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for partial config, got %d", w.Code)
	}

	w = perform(t, r, http.MethodPut, "/api/settings/trello", map[string]any{
		"apiKey": "k", "token": "tok", "boardId": "b1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cfg := st.State().TrelloConfig
	if cfg == nil || cfg.BoardID != "b1" {
		t.Fatalf("config not persisted: %+v", cfg)
	}
}

func TestUpdateAIConfigRejectsUnknownProvider(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.PUT("/api/settings/ai", h.UpdateAIConfig)

	w := perform(t, r, http.MethodPut, "/api/settings/ai", map[string]any{
		"provider": "llama", "temperature": 0.5,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStartAuditWithoutTrelloConfig(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.POST("/api/audit", h.StartAudit)

	w := perform(t, r, http.MethodPost, "/api/audit", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if code := errorCode(t, w); code != "TRELLO_NOT_CONFIGURED" {
		t.Fatalf("error code = %q", code)
	}
}

func TestSyncWithoutSessionConflicts(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.POST("/api/audit/sync", h.SyncAudit)

	w := perform(t, r, http.MethodPost, "/api/audit/sync", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if code := errorCode(t, w); code != "NO_SESSION" {
		t.Fatalf("error code = %q", code)
	}
}

func TestQuickAnalysisWithMockProvider(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.POST("/api/consultant/analysis", h.QuickAnalysis)

	w := perform(t, r, http.MethodPost, "/api/consultant/analysis", map[string]any{
		"question": "Who is overloaded?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Text == "" {
		t.Fatal("empty analysis text")
	}
}

func TestAssessRiskUnknownProjectIs404(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.POST("/api/projects/:id/risk", h.AssessProjectRisk)

	w := perform(t, r, http.MethodPost, "/api/projects/ghost/risk", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
