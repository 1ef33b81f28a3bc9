package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/richinex/mentor/config"
	"github.com/richinex/mentor/engine"
	"github.com/richinex/mentor/llm"
	"github.com/richinex/mentor/model"
	"github.com/richinex/mentor/tooltip"
	"github.com/richinex/mentor/usage"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type fakeRetriever struct{ passages []string }

func (f fakeRetriever) Search(ctx context.Context, vector []float32, k int) ([]string, error) {
	return f.passages, nil
}

type fakeGenerator struct{ response string }

func (f fakeGenerator) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error) {
	return llm.Completion{Content: f.response}, nil
}

const serverAnswer = `Strategy or Explanation
A decision tree gives this choice a visible shape so you can weigh each branch on its own terms against your goals.

Story or Analogy
A student once sketched both paths on a napkin and the answer became obvious.

Reflection Prompts
1. What would you regret not trying?

Concept/Tool References
- Decision Tree: A visual tool for mapping decision options.`

func newTestServer(t *testing.T, passages []string) *Server {
	t.Helper()
	gen := fakeGenerator{response: serverAnswer}
	tooltips := tooltip.NewEngine(gen, nil, tooltip.Options{})
	settings := config.Settings{
		LLM: config.LLMConfig{MaxTokens: 1000},
		Pipeline: config.PipelineConfig{
			ContextBudget: 8000, TooltipMaxWords: 50,
			TooltipThreshold: 50, RetrievalK: 5,
		},
	}
	tracker := usage.NewTracker()
	eng := engine.New(fakeEmbedder{}, fakeRetriever{passages: passages}, gen,
		tooltips, tracker, config.DefaultProfile(), settings)
	eng.Seed(1)
	return New(eng, tracker, filepath.Join(t.TempDir(), "profile.yaml"), zap.NewNop())
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()
	var resp model.APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); !resp.Success {
		t.Errorf("expected success envelope, got %+v", resp)
	}
}

func TestQuerySuccess(t *testing.T) {
	srv := newTestServer(t, []string{"Decision trees structure choices under uncertainty across many domains."})
	body := strings.NewReader(`{"query": "should I take the job"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.Error)
	}

	payload, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var data model.AnswerData
	if err := json.Unmarshal(payload, &data); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !strings.Contains(data.Answer, "**Strategy or Explanation**") {
		t.Errorf("answer not structured: %q", data.Answer)
	}
	if data.QueryID == "" {
		t.Error("expected query ID")
	}
	if data.Metadata.Sources != 1 {
		t.Errorf("expected 1 source, got %d", data.Metadata.Sources)
	}
}

func TestQueryRetrievalMissIs404(t *testing.T) {
	srv := newTestServer(t, nil)
	body := strings.NewReader(`{"query": "anything"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", body))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Success || resp.Error == "" {
		t.Errorf("expected error envelope, got %+v", resp)
	}
}

func TestQueryEmptyIs400(t *testing.T) {
	srv := newTestServer(t, []string{"passage"})
	body := strings.NewReader(`{"query": "  "}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", body))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestQueryRejectsGet(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/query", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, []string{"Decision trees structure choices under uncertainty across many domains."})

	body := strings.NewReader(`{"query": "should I take the job"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("query failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	statsBody := rec.Body.String()
	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if !strings.Contains(statsBody, `"total_queries":1`) {
		t.Errorf("expected one recorded query in stats: %s", statsBody)
	}
}

func TestProfileGetAndPut(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "helpful tutor") {
		t.Errorf("expected default profile, got %s", rec.Body.String())
	}

	// Partial update: only the role changes.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/profile",
		strings.NewReader(`{"role": "socratic mentor"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "socratic mentor") {
		t.Errorf("expected updated role, got %s", body)
	}
	if !strings.Contains(body, "encouraging and clear") {
		t.Errorf("expected untouched tone preserved, got %s", body)
	}

	// The update must survive on disk.
	saved := config.LoadProfile(srv.profilePath)
	if saved.Role != "socratic mentor" {
		t.Errorf("expected persisted role, got %+v", saved)
	}
}
