// Package inference hands routed documents to the external model
// runtime. The runtime decides how to treat LOW spans; this package
// only carries the routing decision across the wire.
package inference

import (
	"context"
	"fmt"

	"github.com/docmentor/tread/internal/config"
	"github.com/docmentor/tread/internal/tread"
)

// Client is the interface for inference backends.
type Client interface {
	Infer(ctx context.Context, text string, result *tread.RoutingResult) (*Response, error)
}

// Response holds the result of a routed inference call.
type Response struct {
	Content    string
	Model      string
	TokensUsed int
}

// NewClient creates an inference client from config.
func NewClient(cfg config.InferenceConfig) (Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("inference requires a configured url")
	}
	return NewHTTP(cfg.URL, cfg.Model), nil
}
