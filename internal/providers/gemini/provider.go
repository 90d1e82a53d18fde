package gemini

import (
	"context"
	"errors"
	"net/http"

	"flyergen/internal/pipeline"
)

// ImageProvider adapts the client to the pipeline's provider contract,
// classifying API failures into transient and terminal kinds.
type ImageProvider struct {
	client *Client
}

func NewImageProvider(client *Client) *ImageProvider {
	return &ImageProvider{client: client}
}

func (p *ImageProvider) Name() string {
	if p == nil || p.client == nil {
		return "gemini"
	}
	return "gemini:" + p.client.Model()
}

func (p *ImageProvider) Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	if p == nil || p.client == nil || !p.client.HasCredentials() {
		return nil, pipeline.Terminal(ErrMissingAPIKey)
	}
	asset, err := p.client.GenerateImage(ctx, req.Brief.Text)
	if err != nil {
		return nil, classify(err)
	}
	return &pipeline.Result{
		Data:   asset.Data,
		Format: asset.Format,
		Width:  asset.Width,
		Height: asset.Height,
	}, nil
}

func classify(err error) error {
	if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrMissingAPIKey) {
		return pipeline.Terminal(err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return pipeline.Transient(err)
		case apiErr.StatusCode >= 500:
			return pipeline.Transient(err)
		default:
			return pipeline.Terminal(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return pipeline.Transient(err)
	}
	// Undecoded failures here are transport-level (connection reset, DNS),
	// which a retry can clear.
	return pipeline.Transient(err)
}

var _ pipeline.Provider = (*ImageProvider)(nil)
