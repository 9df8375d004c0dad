package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docmentor/tread/internal/config"
	"github.com/docmentor/tread/internal/tread"
)

func sampleResult() *tread.RoutingResult {
	return &tread.RoutingResult{
		Spans: []tread.Span{
			{Start: 0, End: 8, Importance: 0.2, Path: tread.PathLow, Tokens: 1},
			{Start: 8, End: 17, Importance: 0.9, Path: tread.PathHigh, Tokens: 2},
		},
		TokenCount:  3,
		Fingerprint: "abc123",
	}
}

func TestHTTPInfer(t *testing.T) {
	var got inferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/infer" {
			t.Errorf("path = %q, want /infer", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content":     "summary",
			"model":       "medroute",
			"tokens_used": 42,
		})
	}))
	defer srv.Close()

	client := NewHTTP(srv.URL, "medroute")
	resp, err := client.Infer(context.Background(), "Patient BP 140/90", sampleResult())
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if resp.Content != "summary" || resp.TokensUsed != 42 {
		t.Errorf("response = %+v", resp)
	}
	if got.Model != "medroute" || got.Text != "Patient BP 140/90" {
		t.Errorf("request = %+v", got)
	}
	if got.Fingerprint != "abc123" {
		t.Errorf("fingerprint = %q", got.Fingerprint)
	}
	if len(got.Spans) != 2 || got.Spans[1].Path != "high" {
		t.Errorf("spans = %+v", got.Spans)
	}
}

func TestHTTPInferErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewHTTP(srv.URL, "medroute")
	if _, err := client.Infer(context.Background(), "text", sampleResult()); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient(config.InferenceConfig{}); err == nil {
		t.Fatal("expected error for empty url")
	}
}
