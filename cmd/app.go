package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teemow/inboxagent/internal/config"
	"github.com/teemow/inboxagent/internal/gmail"
	"github.com/teemow/inboxagent/internal/google"
	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/llm"
	"github.com/teemow/inboxagent/internal/lookup"
	"github.com/teemow/inboxagent/internal/pipeline"
	"github.com/teemow/inboxagent/internal/prompts"
	"github.com/teemow/inboxagent/internal/retrieval"
	"github.com/teemow/inboxagent/internal/store"
)

// app holds the wired collaborators of one process.
type app struct {
	loop    *pipeline.Loop
	vectors *retrieval.Store
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newInstrumentation creates the telemetry provider. The caller must shut
// it down.
func newInstrumentation(ctx context.Context) (*instrumentation.Provider, instrumentation.Config, error) {
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return nil, instrConfig, fmt.Errorf("invalid instrumentation config: %w", err)
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, instrConfig, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	return provider, instrConfig, nil
}

func newApp(ctx context.Context, cfg config.Config, provider *instrumentation.Provider, instrConfig instrumentation.Config) (*app, error) {
	logger := slog.Default()
	metrics := provider.Metrics()

	auth := google.NewAuth(cfg.Google, cfg.Gmail.TokenDir)
	if !auth.HasToken(cfg.Gmail.Account) {
		return nil, fmt.Errorf("no Gmail token for account %q, run 'inboxagent auth' first", cfg.Gmail.Account)
	}
	hc, err := auth.HTTPClient(ctx, cfg.Gmail.Account)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize Gmail: %w", err)
	}
	mailbox, err := gmail.NewClient(ctx, hc, gmail.Config{
		Account:    cfg.Gmail.Account,
		Query:      cfg.Gmail.Query,
		MaxResults: cfg.Gmail.MaxResults,
		Logger:     logger,
		Metrics:    metrics,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("using mailbox", "account", mailbox.Account(), "query", cfg.Gmail.Query)

	openai, err := llm.NewOpenAI(llm.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	})
	if err != nil {
		return nil, err
	}

	var tokenizer llm.Tokenizer
	if bpe, err := llm.NewBPETokenizer(llm.DefaultEncoding); err != nil {
		logger.Warn("falling back to approximate token counts", "error", err)
		tokenizer = llm.RuneTokenizer{}
	} else {
		tokenizer = bpe
	}

	catalog := cfg.Catalog()
	model, err := llm.NewClient(llm.ClientConfig{
		Completer: openai,
		Embedder:  openai,
		Tokenizer: tokenizer,
		Ledger:    catalog.NewLedger(),
		Catalog:   catalog,
		Logger:    logger,
		Metrics:   metrics,
	})
	if err != nil {
		return nil, err
	}

	vectors, err := retrieval.Open(cfg.Storage.VectorDB, cfg.Storage.Namespace, model)
	if err != nil {
		return nil, err
	}

	pcfg := pipeline.Config{
		Model:     model,
		Retriever: vectors,
		Mailbox:   mailbox,
		Sink:      store.New(cfg.Storage.DataDir),
		Ledger:    model.Ledger(),
		Persona: prompts.Persona{
			OwnerName: cfg.Campaign.OwnerName,
			Domains:   cfg.Campaign.Domains,
		},
		Sender:     cfg.Campaign.Sender(),
		QAInterval: cfg.QAInterval,
		Logger:     logger,
		Metrics:    metrics,
		Audit:      instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging),
	}

	if cfg.Search.Enabled() {
		searcher, err := lookup.NewGoogleSearch(ctx, cfg.Search.APIKey, cfg.Search.CX)
		if err != nil {
			_ = vectors.Close()
			return nil, err
		}
		pcfg.Lookup = lookup.NewAgent(searcher, lookup.NewLinkParser(nil), logger, metrics)
	} else {
		logger.Info("web lookups disabled, no search api key configured")
	}

	loop, err := pipeline.New(pcfg)
	if err != nil {
		_ = vectors.Close()
		return nil, err
	}
	return &app{loop: loop, vectors: vectors}, nil
}

// Close drops the indexed email from the vector store, which only ever holds
// the email being processed, and closes it.
func (a *app) Close() error {
	var errs []error
	if err := a.vectors.Clear(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("clear vector store: %w", err))
	}
	if err := a.vectors.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close vector store: %w", err))
	}
	return errors.Join(errs...)
}
