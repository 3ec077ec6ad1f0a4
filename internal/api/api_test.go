package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/labmatch/internal/filtering"
	"github.com/spigell/labmatch/internal/profile"
	"github.com/spigell/labmatch/internal/recommend"
)

const labText = `Robotics Lab

We build autonomous field robots and work with industrial partners on Robotics and Computer Vision.
We have 2 senior researchers and 4 PhD students.`

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCandidates struct {
	reference  *profile.Organization
	candidates []*profile.Organization
	err        error
}

func (s stubCandidates) Candidates(context.Context, *filtering.Config) (*profile.Organization, []*profile.Organization, error) {
	return s.reference, s.candidates, s.err
}

type stubAdvisor struct {
	response string
	err      error
}

func (s stubAdvisor) GenerateContent(context.Context, string) (string, error) {
	return s.response, s.err
}

func labs() stubCandidates {
	return stubCandidates{
		reference: &profile.Organization{ID: "ref", Name: "Home Lab", Domain: "Robotics"},
		candidates: []*profile.Organization{
			{ID: "1", Name: "Alpha", Domain: "Robotics"},
			{ID: "2", Name: "Beta", Domain: "Networks"},
		},
	}
}

func upload(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/ingest/document", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func recommendRequest(task string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/collaboration/recommendations", strings.NewReader(`{"task": "`+task+`"}`))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthAndRequestID(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	r := NewRouter(Deps{Candidates: labs(), Logger: zap.New(core)})

	rec, body := serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected response: %d %v", rec.Code, body)
	}

	id := rec.Header().Get(requestIDHeader)
	if id == "" {
		t.Fatalf("expected a request id header")
	}

	entries := observed.FilterMessage("request handled").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["request_id"] != id {
		t.Fatalf("expected request id %q in log, got %v", id, entries[0].ContextMap())
	}
}

func TestIngestDocument(t *testing.T) {
	r := NewRouter(Deps{Candidates: labs()})

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{name: "text document", req: upload(t, "robotics.txt", labText), status: http.StatusOK},
		{name: "unsupported format", req: upload(t, "robotics.odt", labText), status: http.StatusUnsupportedMediaType},
		{name: "insufficient text", req: upload(t, "short.txt", "too short"), status: http.StatusUnprocessableEntity},
		{name: "broken docx", req: upload(t, "broken.docx", "not a zip archive at all"), status: http.StatusUnprocessableEntity},
		{name: "missing file", req: httptest.NewRequest(http.MethodPost, "/ingest/document", nil), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(r, tt.req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				if body["error"] == nil {
					t.Fatalf("expected an error message, got %v", body)
				}
				return
			}

			fields, ok := body["fields"].(map[string]any)
			if !ok {
				t.Fatalf("expected fields object, got %v", body)
			}
			if fields["name"] != "Robotics Lab" {
				t.Fatalf("unexpected name: %v", fields["name"])
			}
			if body["confidence"] != profile.ConfidenceMedium {
				t.Fatalf("unexpected confidence: %v", body["confidence"])
			}
		})
	}
}

func TestIngestDocumentTooLarge(t *testing.T) {
	r := NewRouter(Deps{Candidates: labs(), UploadLimit: 256})
	payload := strings.Repeat("Robotics Lab works on Machine Learning. ", 20)

	t.Run("declared length", func(t *testing.T) {
		rec, body := serve(r, upload(t, "big.txt", payload))
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
		}
		if body["error"] == nil {
			t.Fatalf("expected an error message, got %v", body)
		}
	})

	t.Run("unknown length", func(t *testing.T) {
		req := upload(t, "big.txt", payload)
		req.ContentLength = -1

		rec, _ := serve(r, req)
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("within limit", func(t *testing.T) {
		rec, _ := serve(NewRouter(Deps{Candidates: labs()}), upload(t, "robotics.txt", labText))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestScores(t *testing.T) {
	r := NewRouter(Deps{Candidates: labs()})

	rec, body := serve(r, httptest.NewRequest(http.MethodGet, "/collaboration/scores", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	scores, ok := body["scores"].([]any)
	if !ok || len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %v", body["scores"])
	}
	first := scores[0].(map[string]any)
	if first["lab_name"] != "Alpha" || first["score"] != float64(30) {
		t.Fatalf("unexpected first score: %v", first)
	}
}

func TestScoresStatuses(t *testing.T) {
	tests := []struct {
		name   string
		deps   Deps
		status int
	}{
		{name: "no reference", deps: Deps{Candidates: stubCandidates{}}, status: http.StatusNotFound},
		{name: "load failure", deps: Deps{Candidates: stubCandidates{err: errors.New("disk")}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(NewRouter(tt.deps), httptest.NewRequest(http.MethodGet, "/collaboration/scores", nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	advisor := stubAdvisor{response: `{"recommendations": [{"lab_name": "Alpha", "reason": "Same field.", "recommended_projects": ["Field robots"]}]}`}
	r := NewRouter(Deps{Candidates: labs(), Merger: recommend.New(advisor, nil)})

	rec, body := serve(r, recommendRequest("build a robot"))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	recs, ok := body["recommendations"].([]any)
	if !ok || len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %v", body["recommendations"])
	}
	first := recs[0].(map[string]any)
	if first["lab_name"] != "Alpha" || first["reason"] != "Same field." {
		t.Fatalf("unexpected first recommendation: %v", first)
	}
	second := recs[1].(map[string]any)
	if second["reason"] != recommend.DefaultReason {
		t.Fatalf("expected default reason, got %v", second["reason"])
	}
}

func TestRecommendationsFailures(t *testing.T) {
	tests := []struct {
		name     string
		deps     Deps
		req      *http.Request
		status   int
		scores   bool
		rawReply string
	}{
		{
			name:   "missing task",
			deps:   Deps{Candidates: labs()},
			req:    recommendRequest(""),
			status: http.StatusBadRequest,
		},
		{
			name:   "blank task",
			deps:   Deps{Candidates: labs(), Merger: recommend.New(stubAdvisor{}, nil)},
			req:    recommendRequest("   "),
			status: http.StatusBadRequest,
		},
		{
			name:     "unparsable advice",
			deps:     Deps{Candidates: labs(), Merger: recommend.New(stubAdvisor{response: "no json here"}, nil)},
			req:      recommendRequest("task"),
			status:   http.StatusBadGateway,
			scores:   true,
			rawReply: "no json here",
		},
		{
			name:   "advisor unreachable",
			deps:   Deps{Candidates: labs(), Merger: recommend.New(stubAdvisor{err: errors.New("timeout")}, nil)},
			req:    recommendRequest("task"),
			status: http.StatusServiceUnavailable,
			scores: true,
		},
		{
			name:   "advisor not configured",
			deps:   Deps{Candidates: labs()},
			req:    recommendRequest("task"),
			status: http.StatusServiceUnavailable,
			scores: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(NewRouter(tt.deps), tt.req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}

			scores, ok := body["scores"].([]any)
			if tt.scores && (!ok || len(scores) != 2) {
				t.Fatalf("expected local scores, got %v", body["scores"])
			}
			if tt.rawReply != "" && body["raw_response"] != tt.rawReply {
				t.Fatalf("expected raw response %q, got %v", tt.rawReply, body["raw_response"])
			}
		})
	}
}
