package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// GenerateRequest holds the parameters for a model generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of a model generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides access to a language model for text generation.
type Client interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model provider is reachable.
	Available(ctx context.Context) bool
}

const (
	retryBaseDelay = 4 * time.Second
	retryMaxDelay  = 30 * time.Second
)

// openaiClient implements Client against the OpenAI Responses API.
type openaiClient struct {
	cfg      Config
	api      *openai.Client
	observer Observer

	// backoff returns the delay before retry attempt n. Overridable in
	// tests so the full retry policy can run without real waits.
	backoff func(attempt int) time.Duration
}

// NewOpenAIClient creates a Client backed by OpenAI. The SDK's own
// retry layer is disabled; retries and backoff are handled here so a
// single policy governs every task.
func NewOpenAIClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	api := openai.NewClient(opts...)

	return &openaiClient{
		cfg:      cfg,
		api:      &api,
		observer: observer,
		backoff:  backoffDelay,
	}
}

func (c *openaiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	attempts := 1 + c.cfg.MaxRetries
	attemptTimeout := time.Duration(c.cfg.TaskTimeout(req.Task)) * time.Millisecond

	// The task timeout bounds each attempt. The overall envelope is sized
	// to fit every attempt plus the full backoff schedule, so the policy
	// can only be cut short by the caller's own context.
	budget := time.Duration(attempts) * attemptTimeout
	for i := 1; i < attempts; i++ {
		budget += c.backoff(i)
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.cfg.Model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.UserPrompt),
		},
		Temperature:     openai.Float(temp),
		MaxOutputTokens: openai.Int(int64(maxTok)),
	}
	if req.SystemPrompt != "" {
		params.Instructions = openai.String(req.SystemPrompt)
	}

	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(c.backoff(i)):
			}
			if ctx.Err() != nil {
				break
			}
		}

		attemptCtx, attemptCancel := context.WithTimeout(ctx, attemptTimeout)
		result, err := c.api.Responses.New(attemptCtx, params)
		attemptCancel()
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(CallEvent{
				Task:      req.Task,
				Model:     c.cfg.Model,
				LatencyMs: latency,
				Success:   true,
			})
			return &GenerateResponse{
				Text:      result.OutputText(),
				Model:     string(result.Model),
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	latency := time.Since(start).Milliseconds()
	c.observer.OnCallComplete(CallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		LatencyMs: latency,
		Success:   false,
		ErrorCode: errorCode(lastErr),
	})

	// Classification follows the last attempt's failure: a timed-out
	// attempt is a timeout, an unreachable provider is unavailability,
	// and anything else means the retry policy ran out.
	switch {
	case errors.Is(lastErr, context.DeadlineExceeded), errors.Is(lastErr, context.Canceled):
		return nil, ErrTimeout
	case isConnectionError(lastErr):
		return nil, ErrUpstreamUnavailable
	default:
		return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}
}

func (c *openaiClient) Available(ctx context.Context) bool {
	if c.cfg.APIKey == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := c.api.Models.List(ctx)
	return err == nil
}

// backoffDelay grows exponentially per attempt and is capped, matching
// the provider guidance for rate-limited clients.
func backoffDelay(attempt int) time.Duration {
	d := retryBaseDelay << (attempt - 1)
	if d > retryMaxDelay {
		return retryMaxDelay
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}
