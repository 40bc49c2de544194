package narrative

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"finboard/internal/config"
	"finboard/internal/logging"
)

var (
	ErrMissingAPIKey    = errors.New("missing GEMINI_API_KEY")
	ErrModelUnavailable = errors.New("no configured gemini model is available")
	ErrQuotaExceeded    = errors.New("gemini quota exceeded, try again later")
	ErrInvalidAPIKey    = errors.New("gemini api key is invalid")
	ErrEmptyResponse    = errors.New("gemini returned an empty response")
)

// Provider turns a prompt into free-form text.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type generateFunc func(ctx context.Context, model, prompt string) (string, error)

// GeminiProvider tries each configured model in order, moving to the next one
// only when a model is reported as unavailable.
type GeminiProvider struct {
	models   []string
	logger   arbor.ILogger
	generate generateFunc
}

var _ Provider = (*GeminiProvider)(nil)

func NewGeminiProvider(ctx context.Context, cfg config.Config, logger arbor.ILogger) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	generate := func(ctx context.Context, model, prompt string) (string, error) {
		result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.4)),
		})
		if err != nil {
			return "", err
		}
		return result.Text(), nil
	}

	return newGeminiProvider(cfg.GeminiModels, logger, generate), nil
}

func newGeminiProvider(models []string, logger arbor.ILogger, generate generateFunc) *GeminiProvider {
	if logger == nil {
		logger = logging.Nop()
	}
	return &GeminiProvider{models: models, logger: logger, generate: generate}
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, model := range p.models {
		text, err := p.generate(ctx, model, prompt)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				return "", ErrEmptyResponse
			}
			p.logger.Debug().Str("model", model).Int("chars", len(text)).Msg("gemini response")
			return text, nil
		}

		mapped := classifyGeminiError(err)
		if !errors.Is(mapped, ErrModelUnavailable) {
			return "", mapped
		}
		p.logger.Warn().Str("model", model).Err(err).Msg("gemini model unavailable, trying next")
		lastErr = err
	}
	if lastErr == nil {
		return "", ErrModelUnavailable
	}
	return "", fmt.Errorf("%w: %v", ErrModelUnavailable, lastErr)
}

// classifyGeminiError maps SDK failures onto readable sentinels.
func classifyGeminiError(err error) error {
	code := 0
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}

	msg := strings.ToLower(err.Error())
	switch {
	case code == http.StatusNotFound || (strings.Contains(msg, "404") && strings.Contains(msg, "model")) || strings.Contains(msg, "not_found"):
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	case code == http.StatusTooManyRequests || strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted"):
		return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
	case code == http.StatusUnauthorized || code == http.StatusForbidden || strings.Contains(msg, "api key") || strings.Contains(msg, "api_key"):
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	default:
		return fmt.Errorf("gemini request failed: %w", err)
	}
}
