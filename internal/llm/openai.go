package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Prompt is a system/user prompt pair.
type Prompt struct {
	System string
	User   string
}

// Completion is the text and usage returned by a chat model.
type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Embedding is a vector and the tokens it consumed.
type Embedding struct {
	Vector []float64
	Tokens int64
}

// Completer sends a prompt to a named chat model.
type Completer interface {
	Complete(ctx context.Context, model string, p Prompt) (Completion, error)
}

// Embedder embeds text with a named embedding model.
type Embedder interface {
	Embed(ctx context.Context, model, text string) (Embedding, error)
}

// OpenAIConfig configures the OpenAI-backed Completer and Embedder.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // Optional: for Azure or proxies
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAI implements Completer and Embedder with the OpenAI API.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI creates an OpenAI client. The SDK's own retries are disabled;
// retrying is the caller's concern.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("openai: api key required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &OpenAI{client: openai.NewClient(opts...)}, nil
}

// Complete runs a chat completion at temperature 0.
func (o *OpenAI) Complete(ctx context.Context, model string, p Prompt) (Completion, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return Completion{}, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("openai: empty response from %s", model)
	}

	return Completion{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// Embed returns the embedding of text.
func (o *OpenAI) Embed(ctx context.Context, model, text string) (Embedding, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return Embedding{}, classifyError(err)
	}
	if len(resp.Data) == 0 {
		return Embedding{}, fmt.Errorf("openai: empty embedding from %s", model)
	}

	return Embedding{
		Vector: resp.Data[0].Embedding,
		Tokens: resp.Usage.PromptTokens,
	}, nil
}

// classifyError marks client errors that will not succeed on retry.
// Timeouts and rate limits stay retryable.
func classifyError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return Permanent(err)
	}
	return err
}
