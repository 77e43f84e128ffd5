package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/teemow/inboxagent/internal/article"
	"github.com/teemow/inboxagent/internal/campaign"
	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/llm"
	"github.com/teemow/inboxagent/internal/mail"
	"github.com/teemow/inboxagent/internal/prompts"
	"github.com/teemow/inboxagent/internal/store"
	"github.com/teemow/inboxagent/internal/usage"
)

// DefaultQAInterval spaces the per-question model calls of an Answers email.
const DefaultQAInterval = 500 * time.Millisecond

// Model invokes a chat model by tier.
type Model interface {
	Invoke(ctx context.Context, tier llm.Tier, p llm.Prompt) (string, error)
}

// Retriever indexes the email being processed and returns context for a
// prompt.
type Retriever interface {
	Index(ctx context.Context, e mail.Email) error
	Retrieve(ctx context.Context, prompt string, topK int) (string, error)
}

// Mailbox is the mail source.
type Mailbox interface {
	FetchAll(ctx context.Context) ([]mail.Email, error)
	Archive(ctx context.Context, uid string) error
}

// Sink persists result bundles. A saved bundle marks its email as processed.
type Sink interface {
	Exists(id string) (bool, error)
	Save(b store.Bundle) error
}

// Lookup finds business details on the web. Both calls are best-effort.
type Lookup interface {
	FindMissingBusinessDetails(ctx context.Context, d campaign.BusinessDetails) (campaign.BusinessDetails, error)
	FindMissingLink(ctx context.Context, query string) (string, error)
}

// Config holds the collaborators of a Loop. Model, Retriever, Mailbox, Sink
// and Ledger are required; Lookup is optional.
type Config struct {
	Model     Model
	Retriever Retriever
	Mailbox   Mailbox
	Sink      Sink
	Lookup    Lookup
	Ledger    *usage.Ledger

	// Persona defaults to prompts.DefaultPersona.
	Persona prompts.Persona
	// Sender defaults to campaign.DefaultSender.
	Sender campaign.Sender
	// Article defaults to article.DefaultOptions().
	Article article.Options
	// QAInterval defaults to DefaultQAInterval. A negative value disables
	// the spacing.
	QAInterval time.Duration

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
	Audit   *instrumentation.AuditLogger
}

func (c *Config) validate() error {
	var errs []error
	if c.Model == nil {
		errs = append(errs, errors.New("model is required"))
	}
	if c.Retriever == nil {
		errs = append(errs, errors.New("retriever is required"))
	}
	if c.Mailbox == nil {
		errs = append(errs, errors.New("mailbox is required"))
	}
	if c.Sink == nil {
		errs = append(errs, errors.New("sink is required"))
	}
	if c.Ledger == nil {
		errs = append(errs, errors.New("ledger is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) setDefaults() {
	if c.Persona.OwnerName == "" {
		c.Persona = prompts.DefaultPersona
	}
	if c.Sender.OwnerName == "" {
		c.Sender = campaign.DefaultSender
	}
	if c.Article.Series == "" {
		c.Article = article.DefaultOptions()
	}
	if c.QAInterval == 0 {
		c.QAInterval = DefaultQAInterval
	}
}

// complete retrieves context for the system prompt and invokes the model
// with that context as the user prompt.
func complete(ctx context.Context, m Model, r Retriever, tier llm.Tier, topK int, p llm.Prompt) (string, error) {
	user, err := r.Retrieve(ctx, p.System, topK)
	if err != nil {
		return "", err
	}
	p.User = user
	return m.Invoke(ctx, tier, p)
}

func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
