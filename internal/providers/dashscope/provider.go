package dashscope

import (
	"context"
	"errors"
	"net/http"

	"flyergen/internal/pipeline"
)

// ImageProvider adapts the async client to the pipeline's provider contract.
// A failed submission is terminal for this provider; a job that is still
// pending when the wait budget runs out is a transient failure of the
// attempt, subject to the normal retry policy.
type ImageProvider struct {
	client *Client
}

func NewImageProvider(client *Client) *ImageProvider {
	return &ImageProvider{client: client}
}

func (p *ImageProvider) Name() string {
	if p == nil || p.client == nil {
		return "dashscope"
	}
	return "dashscope:" + p.client.Model()
}

func (p *ImageProvider) Generate(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	if p == nil || p.client == nil || !p.client.HasCredentials() {
		return nil, pipeline.Terminal(ErrMissingAPIKey)
	}

	taskID, err := p.client.Submit(ctx, req.Brief.Text)
	if err != nil {
		return nil, classifySubmit(err)
	}

	asset, err := p.client.Await(ctx, taskID)
	if err != nil {
		return nil, classifyAwait(err)
	}

	return &pipeline.Result{
		Data:   asset.Data,
		Format: asset.Format,
	}, nil
}

func classifySubmit(err error) error {
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
	// Submission rejections that are not transport hiccups will not clear
	// on retry with the same payload.
	return pipeline.Terminal(err)
}

func classifyAwait(err error) error {
	switch {
	case errors.Is(err, ErrPollTimeout):
		return pipeline.Transient(err)
	case errors.Is(err, ErrTaskFailed):
		return pipeline.Terminal(err)
	}
	// Everything else while waiting (poll transport errors, 5xx on the
	// task endpoint, deadline) is worth another try.
	return pipeline.Transient(err)
}

var _ pipeline.Provider = (*ImageProvider)(nil)
