// Package gemini is a lightweight HTTP client for the Generative Language
// API. It covers the two calls the pipeline needs: synchronous image
// prediction with inline bytes in the response, and plain text completion
// for the classifier fallback and the brief director.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"flyergen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// ErrContentBlocked indicates the model refused the prompt on policy grounds.
var ErrContentBlocked = errors.New("gemini: content blocked")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: status %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// Options configures the client.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	TextModel  string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	textModel  string
	httpClient *http.Client
	logger     *infra.Logger
}

// ImageAsset is the normalized result of an image prediction.
type ImageAsset struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts,omitempty"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type generationConfig struct {
	Temperature        float64  `json:"temperature,omitempty"`
	CandidateCount     int      `json:"candidateCount,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type generateContentResponse struct {
	Candidates     []candidate `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Status  string `json:"status,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.0-flash-exp-image-generation"
	}
	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = "gemini-1.5-flash"
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
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		textModel:  textModel,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Model returns the configured image model identifier.
func (c *Client) Model() string { return c.model }

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool { return c.apiKey != "" }

// GenerateImage performs one synchronous prediction and returns the inline
// image bytes from the response.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*ImageAsset, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("gemini: prompt is required")
	}

	payload := generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			CandidateCount:     1,
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}
	decoded, err := c.generateContent(ctx, c.model, payload)
	if err != nil {
		return nil, err
	}

	for _, cand := range decoded.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("gemini: decode inline data: %w", err)
			}
			asset := &ImageAsset{Data: data, Format: normalizeMIME(p.InlineData.MimeType)}
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
				asset.Width, asset.Height = cfg.Width, cfg.Height
			}
			c.logger.Debug().Str("model", c.model).Int("bytes", len(data)).Msg("gemini: generated image asset")
			return asset, nil
		}
	}
	return nil, errors.New("gemini: response carried no image data")
}

// Complete performs one text completion against the text model and returns
// the concatenated candidate text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	payload := generateContentRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: 0.4, CandidateCount: 1},
	}
	decoded, err := c.generateContent(ctx, c.textModel, payload)
	if err != nil {
		return "", err
	}
	sb := &strings.Builder{}
	for _, cand := range decoded.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.New("gemini: empty completion")
	}
	return text, nil
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (*generateContentResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			apiErr.Status = detail.Error.Status
			apiErr.Message = detail.Error.Message
		}
		return nil, apiErr
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", ErrContentBlocked, decoded.PromptFeedback.BlockReason)
	}
	for _, cand := range decoded.Candidates {
		if cand.FinishReason == "SAFETY" || cand.FinishReason == "PROHIBITED_CONTENT" {
			return nil, fmt.Errorf("%w: finish reason %s", ErrContentBlocked, cand.FinishReason)
		}
	}
	return &decoded, nil
}

func normalizeMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch mime {
	case "image/jpeg", "image/jpg":
		return "image/jpeg"
	case "":
		return "image/png"
	default:
		if strings.HasPrefix(mime, "image/") {
			return mime
		}
		return "image/png"
	}
}
