package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/furkancam7/lifeplan/internal/logging"
	"github.com/furkancam7/lifeplan/internal/xerrors"
)

// ErrDisabled is returned when no text-generation backend is configured.
var ErrDisabled = errors.New("text generation is not configured")

// DefaultModel is used when the config does not name one.
const DefaultModel = "gemini-2.0-flash"

// Gemini generates text through the Google GenAI API with retry on
// transient failures.
type Gemini struct {
	client *genai.Client
	model  string
	retry  xerrors.RetryConfig
	logger logging.Logger
}

// NewGemini constructs a Gemini-backed generator.
func NewGemini(ctx context.Context, apiKey, model string, logger logging.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = logging.Nop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  model,
		retry:  xerrors.DefaultRetryConfig(),
		logger: logger.Named("gemini"),
	}, nil
}

// Generate runs one completion. Rate limits and upstream outages are
// retried with backoff; everything else fails immediately.
func (g *Gemini) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		cfg.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.TopP > 0 {
		cfg.TopP = genai.Ptr(opts.TopP)
	}
	if opts.TopK > 0 {
		cfg.TopK = genai.Ptr(opts.TopK)
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxTokens
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	return xerrors.RetryWithResult(ctx, g.retry, func(ctx context.Context) (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err != nil {
			return "", classify(err)
		}
		text := resp.Text()
		if text == "" {
			return "", xerrors.NewPermanent(fmt.Errorf("empty completion"), "model returned no text")
		}
		g.logger.Debug("completion of %d chars for %d char prompt", len(text), len(prompt))
		return text, nil
	})
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if xerrors.TransientHTTPStatus(apiErr.Code) {
			return xerrors.NewTransient(err, apiErr.Message)
		}
		return xerrors.NewPermanent(err, apiErr.Message)
	}
	// Transport-level failures are worth retrying.
	return xerrors.NewTransient(err, "")
}
