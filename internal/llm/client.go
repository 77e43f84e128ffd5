package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/usage"
)

// ClientConfig holds the collaborators of a Client. Completer, Embedder,
// Tokenizer and Ledger are required.
type ClientConfig struct {
	Completer Completer
	Embedder  Embedder
	Tokenizer Tokenizer
	Ledger    *usage.Ledger

	// Catalog defaults to DefaultCatalog().
	Catalog Catalog
	// Backoff defaults to DefaultBackoff.
	Backoff *Backoff
	// Notify is told about every wait between attempts.
	Notify RetryNotify

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Client invokes models by tier with retry and usage accounting.
type Client struct {
	completer Completer
	embedder  Embedder
	tokenizer Tokenizer
	ledger    *usage.Ledger
	catalog   Catalog
	backoff   Backoff
	notify    RetryNotify
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// NewClient creates a Client from cfg.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Completer == nil {
		return nil, errors.New("llm: completer is required")
	}
	if cfg.Embedder == nil {
		return nil, errors.New("llm: embedder is required")
	}
	if cfg.Tokenizer == nil {
		return nil, errors.New("llm: tokenizer is required")
	}
	if cfg.Ledger == nil {
		return nil, errors.New("llm: ledger is required")
	}

	c := &Client{
		completer: cfg.Completer,
		embedder:  cfg.Embedder,
		tokenizer: cfg.Tokenizer,
		ledger:    cfg.Ledger,
		catalog:   cfg.Catalog,
		backoff:   DefaultBackoff,
		notify:    cfg.Notify,
		logger:    logging.WithOperation(logging.OrDefault(cfg.Logger), "llm"),
		metrics:   cfg.Metrics,
	}
	if c.catalog == nil {
		c.catalog = DefaultCatalog()
	}
	if cfg.Backoff != nil {
		c.backoff = *cfg.Backoff
	}
	return c, nil
}

// Ledger returns the usage ledger the client records into.
func (c *Client) Ledger() *usage.Ledger {
	return c.ledger
}

// Invoke sends p to the best-fitting variant of tier and returns the reply
// text. On failure after all attempts the error is a *ModelError.
func (c *Client) Invoke(ctx context.Context, tier Tier, p Prompt) (string, error) {
	tokens := c.tokenizer.Count(p.System + p.User)
	variant, err := SelectVariant(c.catalog[tier], tokens)
	if err != nil {
		return "", &ModelError{Tier: tier, Err: err}
	}

	ctx, span := instrumentation.StartClientSpan(ctx, "llm.invoke",
		instrumentation.NewSpanAttributeBuilder().
			WithModel(string(tier), variant.Name).
			WithTokens(tokens).
			Build()...)
	start := time.Now()

	var completion Completion
	attempts, err := retry(ctx, c.backoff, c.notify, func(attempt int) error {
		var callErr error
		completion, callErr = c.completer.Complete(ctx, variant.Name, p)
		if callErr != nil {
			instrumentation.AddSpanEvent(span, "attempt_failed", attribute.Int(instrumentation.SpanAttrAttempt, attempt))
			c.logger.Warn("model call failed",
				logging.Model(variant.Name),
				slog.Int("attempt", attempt),
				logging.Err(callErr))
		}
		return callErr
	})
	c.metrics.RecordModelCall(ctx, variant.Name, instrumentation.StatusFromError(err), time.Since(start))
	if err != nil {
		err = &ModelError{Tier: tier, Model: variant.Name, Attempts: attempts, Err: err}
		instrumentation.EndSpan(span, err)
		return "", err
	}
	instrumentation.EndSpan(span, nil)

	in, out := completion.InputTokens, completion.OutputTokens
	if in == 0 && out == 0 {
		in, out = int64(tokens), int64(c.tokenizer.Count(completion.Text))
	}
	c.record(ctx, variant, in, out)

	return completion.Text, nil
}

// Embed returns the embedding vector of text using the embedding tier.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	tokens := c.tokenizer.Count(text)
	variant, err := SelectVariant(c.catalog[TierEmbedding], tokens)
	if err != nil {
		return nil, &ModelError{Tier: TierEmbedding, Err: err}
	}

	ctx, span := instrumentation.StartClientSpan(ctx, "llm.embed",
		instrumentation.NewSpanAttributeBuilder().
			WithModel(string(TierEmbedding), variant.Name).
			WithTokens(tokens).
			Build()...)
	start := time.Now()

	var emb Embedding
	attempts, err := retry(ctx, c.backoff, c.notify, func(attempt int) error {
		var callErr error
		emb, callErr = c.embedder.Embed(ctx, variant.Name, text)
		if callErr != nil {
			c.logger.Warn("embedding call failed",
				logging.Model(variant.Name),
				slog.Int("attempt", attempt),
				logging.Err(callErr))
		}
		return callErr
	})
	c.metrics.RecordModelCall(ctx, variant.Name, instrumentation.StatusFromError(err), time.Since(start))
	if err != nil {
		err = &ModelError{Tier: TierEmbedding, Model: variant.Name, Attempts: attempts, Err: err}
		instrumentation.EndSpan(span, err)
		return nil, err
	}
	instrumentation.EndSpan(span, nil)

	used := emb.Tokens
	if used == 0 {
		used = int64(tokens)
	}
	c.record(ctx, variant, used, 0)

	return emb.Vector, nil
}

func (c *Client) record(ctx context.Context, v Variant, in, out int64) {
	if err := c.ledger.Record(v.Name, in, out); err != nil {
		c.logger.Error("failed to record usage", logging.Model(v.Name), logging.Err(err))
		return
	}

	cost := float64(in) * v.Rate.Input / 1000
	if !v.Embedding {
		cost += float64(out) * v.Rate.Output / 1000
	}
	c.metrics.RecordModelUsage(ctx, v.Name, in, out, cost)
	c.logger.Debug("model call recorded",
		logging.Model(v.Name),
		slog.Int64("input_tokens", in),
		slog.Int64("output_tokens", out),
		slog.String("cost", fmt.Sprintf("$%.6f", cost)))
}
