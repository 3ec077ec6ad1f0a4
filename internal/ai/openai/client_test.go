package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spigell/labmatch/internal/ai"
)

func TestGenerateContent(t *testing.T) {
	var received completionRequest
	var auth, path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"recommendations\":[]}  "}}]}`))
	}))
	defer server.Close()

	client, err := New("secret", "", nil, WithBaseURL(server.URL+"/v1/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output, err := client.GenerateContent(context.Background(), "suggest labs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != `{"recommendations":[]}` {
		t.Fatalf("unexpected output: %q", output)
	}
	if auth != "Bearer secret" {
		t.Fatalf("unexpected authorization header: %q", auth)
	}
	if path != "/v1/chat/completions" {
		t.Fatalf("unexpected path: %q", path)
	}

	if received.Model != DefaultModel || received.MaxTokens != 800 || received.Temperature != 0.7 {
		t.Fatalf("unexpected request parameters: %+v", received)
	}
	if len(received.Messages) != 2 || received.Messages[0].Content != ai.SystemInstruction || received.Messages[1].Content != "suggest labs" {
		t.Fatalf("unexpected messages: %+v", received.Messages)
	}

	if client.Provider() != ai.ProviderOpenAI || client.Model() != DefaultModel {
		t.Fatalf("unexpected description: %s/%s", client.Provider(), client.Model())
	}
}

func TestGenerateContentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"message":"bad key"}}`,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || statusErr.Code != http.StatusUnauthorized {
					t.Fatalf("expected StatusError 401, got %v", err)
				}
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices":[]}`,
			check: func(t *testing.T, err error) {
				if err == nil || err.Error() != "openai api returned no choices" {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatal("expected decode error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := New("secret", "gpt-test", nil, WithBaseURL(server.URL))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			_, err = client.GenerateContent(context.Background(), "prompt")
			tt.check(t, err)
		})
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New("  ", "", nil); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
