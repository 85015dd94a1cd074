package assistant

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

type CompletionRequest struct {
	Prompt          string
	MaxOutputTokens int
}

// Completer is a hosted text-completion service: prompt in, text out.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ResponsesClient talks to an OpenAI-compatible /responses endpoint.
type ResponsesClient struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

func NewResponsesClient(cfg ClientConfig, logger *slog.Logger) *ResponsesClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	return &ResponsesClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

// Complete issues exactly one request. Failures are never retried.
func (c *ResponsesClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Prompt)},
	}
	if req.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxOutputTokens))
	}

	start := time.Now()
	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if stderrors.As(err, &apiErr) {
			c.logger.Error("completion service returned an error",
				"status", apiErr.StatusCode,
				"duration", time.Since(start))
		} else {
			c.logger.Error("completion request failed", "error", err, "duration", time.Since(start))
		}
		return "", errors.ErrUpstreamFailed.WithCause(err)
	}

	c.logger.Debug("completion received", "id", resp.ID, "duration", time.Since(start))
	if text := resp.OutputText(); text != "" {
		return text, nil
	}
	// no text items; hand the raw payload to the caller's fallback
	return resp.RawJSON(), nil
}
