package inference

import (
	"context"

	"github.com/docmentor/tread/internal/tread"
)

// MockClient is a test double for the inference Client interface.
// It can also be used for dry-run mode.
type MockClient struct {
	Response *Response
	Err      error
	Texts    []string // records texts sent
}

// Infer records the call and returns the mock response.
func (m *MockClient) Infer(ctx context.Context, text string, result *tread.RoutingResult) (*Response, error) {
	m.Texts = append(m.Texts, text)
	return m.Response, m.Err
}
