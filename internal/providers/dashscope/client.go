// Package dashscope is an HTTP client for DashScope's asynchronous
// text-to-image API: a submission call returns a task identifier, and the
// task endpoint is polled until the job completes or the wait budget runs
// out.
package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"flyergen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("dashscope: api key is required")

// ErrPollTimeout indicates the task did not finish within the wait budget.
var ErrPollTimeout = errors.New("dashscope: task still pending after max wait")

// ErrTaskFailed indicates the remote job finished unsuccessfully.
var ErrTaskFailed = errors.New("dashscope: task failed")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashscope: status %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Options configures the client.
type Options struct {
	APIKey       string
	BaseURL      string
	Model        string
	DefaultSize  string
	PollInterval time.Duration
	PollMaxWait  time.Duration
	HTTPClient   *http.Client
	Logger       *infra.Logger
}

type Client struct {
	apiKey       string
	baseURL      string
	model        string
	defaultSize  string
	pollInterval time.Duration
	pollMaxWait  time.Duration
	httpClient   *http.Client
	logger       *infra.Logger
}

// ImageAsset is the normalized result after a task completes.
type ImageAsset struct {
	URL    string
	Data   []byte
	Format string
}

type submitRequest struct {
	Model      string       `json:"model"`
	Input      submitInput  `json:"input"`
	Parameters submitParams `json:"parameters"`
}

type submitInput struct {
	Prompt string `json:"prompt"`
}

type submitParams struct {
	Size string `json:"size,omitempty"`
	N    int    `json:"n,omitempty"`
}

type submitResponse struct {
	Output struct {
		TaskID     string `json:"task_id"`
		TaskStatus string `json:"task_status"`
	} `json:"output"`
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

type taskResponse struct {
	Output struct {
		TaskID     string `json:"task_id"`
		TaskStatus string `json:"task_status"`
		Results    []struct {
			URL     string `json:"url"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"results"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://dashscope-intl.aliyuncs.com/api/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "wanx2.1-t2i-turbo"
	}
	size := strings.TrimSpace(opts.DefaultSize)
	if size == "" {
		size = "1024*1024"
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	maxWait := opts.PollMaxWait
	if maxWait <= 0 {
		maxWait = 60 * time.Second
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		baseURL:      baseURL,
		model:        model,
		defaultSize:  size,
		pollInterval: interval,
		pollMaxWait:  maxWait,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool { return c.apiKey != "" }

// GenerateImage submits a task and polls it to completion, then downloads
// the produced image. Submission failures are distinct from poll timeouts so
// callers can classify them differently.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*ImageAsset, error) {
	taskID, err := c.Submit(ctx, prompt)
	if err != nil {
		return nil, err
	}
	asset, err := c.Await(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// Submit enqueues one text-to-image task and returns its identifier.
func (c *Client) Submit(ctx context.Context, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("dashscope: prompt is required")
	}
	payload := submitRequest{
		Model:      c.model,
		Input:      submitInput{Prompt: prompt},
		Parameters: submitParams{Size: c.defaultSize, N: 1},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("dashscope: encode request: %w", err)
	}
	endpoint := c.baseURL + "/services/aigc/text2image/image-synthesis"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("dashscope: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-DashScope-Async", "enable")

	raw, status, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status >= 300 {
		return "", decodeAPIError(status, raw)
	}
	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("dashscope: decode response: %w", err)
	}
	if decoded.Code != "" {
		return "", &APIError{StatusCode: status, Code: decoded.Code, Message: decoded.Message}
	}
	if decoded.Output.TaskID == "" {
		return "", errors.New("dashscope: submission returned no task id")
	}
	c.logger.Debug().Str("task_id", decoded.Output.TaskID).Str("model", c.model).Msg("dashscope: task submitted")
	return decoded.Output.TaskID, nil
}

// Await polls the task endpoint at a fixed interval until the job completes,
// fails, or the wait budget is exhausted.
func (c *Client) Await(ctx context.Context, taskID string) (*ImageAsset, error) {
	deadline := time.Now().Add(c.pollMaxWait)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, result, err := c.pollOnce(ctx, taskID)
		if err != nil {
			return nil, err
		}
		switch status {
		case "SUCCEEDED":
			return c.fetchResult(ctx, taskID, result)
		case "FAILED", "CANCELED":
			return nil, fmt.Errorf("%w: task %s", ErrTaskFailed, taskID)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: task %s", ErrPollTimeout, taskID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) pollOnce(ctx context.Context, taskID string) (string, *taskResponse, error) {
	endpoint := fmt.Sprintf("%s/tasks/%s", c.baseURL, url.PathEscape(taskID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", nil, fmt.Errorf("dashscope: build poll request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, status, err := c.do(req)
	if err != nil {
		return "", nil, err
	}
	if status >= 300 {
		return "", nil, decodeAPIError(status, raw)
	}
	var decoded taskResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", nil, fmt.Errorf("dashscope: decode task response: %w", err)
	}
	if decoded.Code != "" {
		return "", nil, &APIError{StatusCode: status, Code: decoded.Code, Message: decoded.Message}
	}
	return strings.ToUpper(decoded.Output.TaskStatus), &decoded, nil
}

func (c *Client) fetchResult(ctx context.Context, taskID string, resp *taskResponse) (*ImageAsset, error) {
	for _, result := range resp.Output.Results {
		if result.URL == "" {
			continue
		}
		data, format, err := c.download(ctx, result.URL)
		if err != nil {
			return nil, err
		}
		c.logger.Debug().Str("task_id", taskID).Str("url", result.URL).Msg("dashscope: downloaded task result")
		return &ImageAsset{URL: result.URL, Data: data, Format: format}, nil
	}
	return nil, fmt.Errorf("dashscope: task %s completed without a result url", taskID)
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || parsed.Scheme == "" {
		return nil, "", fmt.Errorf("dashscope: invalid image url: %s", imageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("dashscope: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("dashscope: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("dashscope: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("dashscope: read image: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = "image/png"
	}
	return data, format, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("dashscope: http request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("dashscope: read response: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status, Message: strings.TrimSpace(string(raw))}
	var detail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Message != "" {
		apiErr.Code = detail.Code
		apiErr.Message = detail.Message
	}
	return apiErr
}
