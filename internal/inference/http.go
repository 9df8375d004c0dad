package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docmentor/tread/internal/tread"
)

// HTTP posts routed documents to an inference endpoint.
type HTTP struct {
	url    string
	model  string
	client *http.Client
}

// NewHTTP creates an HTTP inference client.
func NewHTTP(url, model string) *HTTP {
	return &HTTP{
		url:    url,
		model:  model,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type wireSpan struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Path       string  `json:"path"`
	Importance float64 `json:"importance"`
}

type inferRequest struct {
	Model       string     `json:"model"`
	Text        string     `json:"text"`
	Fingerprint string     `json:"fingerprint"`
	Spans       []wireSpan `json:"spans"`
}

// Infer sends the text and its span routing to the runtime's infer
// endpoint and returns the model output.
func (h *HTTP) Infer(ctx context.Context, text string, result *tread.RoutingResult) (*Response, error) {
	req := inferRequest{
		Model:       h.model,
		Text:        text,
		Fingerprint: result.Fingerprint,
	}
	for _, s := range result.Spans {
		req.Spans = append(req.Spans, wireSpan{
			Start:      s.Start,
			End:        s.End,
			Path:       string(s.Path),
			Importance: s.Importance,
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", h.url+"/infer", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference api status %d: %s", resp.StatusCode, respBody)
	}

	var out struct {
		Content    string `json:"content"`
		Model      string `json:"model"`
		TokensUsed int    `json:"tokens_used"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &Response{
		Content:    out.Content,
		Model:      out.Model,
		TokensUsed: out.TokensUsed,
	}, nil
}
