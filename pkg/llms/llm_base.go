package llms

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/internal"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

const OpenAIAPITimeout = 30 * time.Second
const MaxOpenAIAPIRequestAttempts = 5
const DefaultTemperature = 0.0

const OpenAIAPIKeyNotSetError = "CLUSTERCACHE_OPENAI_API_KEY is not set" //nolint:gosec
const InvalidLLMModelError = "llm model is not set or is invalid"

var log = internal.GetLogger()

// NewLabelGenerator returns the label generation collaborator configured by
// cfg. Only OpenAI-compatible chat services are supported.
func NewLabelGenerator(ctx context.Context, cfg *config.Config) (models.LabelGenerator, error) {
	switch cfg.LLM.Service {
	case "openai", "":
		// if a custom OpenAI endpoint is set, do not validate the model name
		if cfg.LLM.OpenAIEndpoint != "" {
			return NewOpenAILabelGenerator(ctx, cfg)
		}
		if _, ok := ValidOpenAILLMs[cfg.LLM.Model]; !ok {
			return nil, fmt.Errorf(
				"invalid llm model \"%s\" for %s",
				cfg.LLM.Model,
				cfg.LLM.Service,
			)
		}
		return NewOpenAILabelGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("invalid LLM service: %s", cfg.LLM.Service)
	}
}

// NewEmbeddingsClient returns the embeddings collaborator configured by cfg.
func NewEmbeddingsClient(ctx context.Context, cfg *config.Config) (models.EmbeddingsClient, error) {
	switch cfg.LLM.Service {
	// For now we only support OpenAI embeddings
	case "openai", "":
		return NewOpenAIEmbeddingsClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("invalid embeddings service: %s", cfg.LLM.Service)
	}
}

type LLMError struct {
	message       string
	originalError error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm error: %s (original error: %v)", e.message, e.originalError)
}

func NewLLMError(message string, originalError error) *LLMError {
	return &LLMError{message: message, originalError: originalError}
}

var ValidOpenAILLMs = map[string]bool{
	"gpt-3.5-turbo":     true,
	"gpt-4":             true,
	"gpt-3.5-turbo-16k": true,
	"gpt-4-32k":         true,
}

func NewRetryableHTTPClient(retryMax int, timeout time.Duration) *retryablehttp.Client {
	retryableHTTPClient := retryablehttp.NewClient()
	retryableHTTPClient.RetryMax = retryMax
	retryableHTTPClient.HTTPClient.Timeout = timeout
	retryableHTTPClient.Logger = internal.NewLeveledLogrus(log)
	retryableHTTPClient.Backoff = retryablehttp.DefaultBackoff
	retryableHTTPClient.CheckRetry = retryPolicy

	return retryableHTTPClient
}

// retryPolicy is a retryablehttp.CheckRetry function. It is used to determine
// whether a request should be retried or not.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	// do not retry on context.Canceled or context.DeadlineExceeded
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	// Do not retry 400 errors as they're used by OpenAI to indicate maximum
	// context length exceeded
	if resp != nil && resp.StatusCode == 400 {
		return false, err
	}

	shouldRetry, _ := retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	return shouldRetry, nil
}

func GetOpenAIAPIKey(cfg *config.Config) string {
	apiKey := cfg.LLM.OpenAIAPIKey
	// If the key is not set, log a fatal error and exit
	if apiKey == "" {
		log.Fatal(OpenAIAPIKeyNotSetError)
	}
	return apiKey
}

func GetBaseOpenAIClientOptions(apiKey, model string) []openai.Option {
	retryableHTTPClient := NewRetryableHTTPClient(MaxOpenAIAPIRequestAttempts, OpenAIAPITimeout)

	options := make([]openai.Option, 0)
	options = append(
		options,
		openai.WithHTTPClient(retryableHTTPClient.StandardClient()),
		openai.WithModel(model),
		openai.WithToken(apiKey),
	)

	return options
}

// ConfigureOpenAIClientOptions appends the custom endpoint option when one is
// configured.
func ConfigureOpenAIClientOptions(options []openai.Option, cfg *config.Config) []openai.Option {
	if cfg.LLM.OpenAIEndpoint != "" {
		options = append(options, openai.WithBaseURL(cfg.LLM.OpenAIEndpoint))
	}
	return options
}
