package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/teemow/inboxagent/internal/article"
	"github.com/teemow/inboxagent/internal/campaign"
	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/mail"
	"github.com/teemow/inboxagent/internal/prompts"
	"github.com/teemow/inboxagent/internal/store"
	"github.com/teemow/inboxagent/internal/usage"
)

// Result describes what a handler did with an email.
type Result struct {
	Category  Category
	Persisted bool
	Archived  bool
}

// Dispatcher routes a classified email to its category handler.
type Dispatcher struct {
	model      Model
	retriever  Retriever
	mailbox    Mailbox
	sink       Sink
	lookup     Lookup
	ledger     *usage.Ledger
	persona    prompts.Persona
	sender     campaign.Sender
	article    article.Options
	qaInterval time.Duration
	logger     *slog.Logger
}

// NewDispatcher creates a dispatcher from cfg.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &Dispatcher{
		model:      cfg.Model,
		retriever:  cfg.Retriever,
		mailbox:    cfg.Mailbox,
		sink:       cfg.Sink,
		lookup:     cfg.Lookup,
		ledger:     cfg.Ledger,
		persona:    cfg.Persona,
		sender:     cfg.Sender,
		article:    cfg.Article,
		qaInterval: cfg.QAInterval,
		logger:     logging.OrDefault(cfg.Logger),
	}, nil
}

// Dispatch runs the handler for dec.Category.
func (d *Dispatcher) Dispatch(ctx context.Context, e mail.Email, dec Decision) (res Result, err error) {
	ctx, span := instrumentation.StartSpan(ctx, "email.handle",
		instrumentation.NewSpanAttributeBuilder().
			WithEmail(e.ID).
			WithCategory(dec.Category.String()).
			Build()...)
	defer func() { instrumentation.EndSpan(span, err) }()

	switch dec.Category {
	case CategoryAnswers:
		return d.handleAnswers(ctx, e, dec)
	case CategoryNominations:
		return d.handleNominations(ctx, e, dec)
	case CategoryQuestions:
		return d.handleReply(ctx, e, dec, prompts.Questions)
	case CategoryUnsubscribe:
		return d.handleReply(ctx, e, dec, prompts.Unsubscribe)
	case CategoryAcknowledgment:
		return d.handleReply(ctx, e, dec, prompts.Acknowledgment)
	case CategoryConfirmation:
		return d.handleReply(ctx, e, dec, prompts.Confirmation)
	case CategoryDecline:
		return d.handleReply(ctx, e, dec, prompts.Decline)
	case CategorySpam:
		return d.handleSpam(ctx, e, dec)
	default:
		return Result{}, &UnknownCategoryError{Label: string(dec.Category)}
	}
}

// bundle assembles the fields every persisted category shares. The usage
// report is captured here, before the loop resets the ledger.
func (d *Dispatcher) bundle(e mail.Email, dec Decision) store.Bundle {
	return store.Bundle{
		ID:          e.ID,
		Usage:       d.ledger.Report(),
		RawEmail:    e.Raw(),
		HTML:        e.HTML,
		Category:    dec.JSON(),
		Attachments: e.Attachments,
	}
}

// persistAndArchive saves b and then archives the email. An archive failure
// is logged: the bundle already marks the email as processed.
func (d *Dispatcher) persistAndArchive(ctx context.Context, e mail.Email, dec Decision, b store.Bundle) (Result, error) {
	res := Result{Category: dec.Category}
	if err := d.sink.Save(b); err != nil {
		return res, &HandlerError{
			Category: dec.Category,
			Stage:    StagePersist,
			Err:      &PersistenceError{EmailID: e.ID, Err: err},
		}
	}
	res.Persisted = true
	res.Archived = d.archive(ctx, e)
	return res, nil
}

func (d *Dispatcher) archive(ctx context.Context, e mail.Email) bool {
	if err := d.mailbox.Archive(ctx, e.UID); err != nil {
		d.logger.Warn("failed to archive email",
			logging.EmailID(e.ID),
			logging.Err(err))
		return false
	}
	return true
}

// degraded logs a failed best-effort sub-task.
func (d *Dispatcher) degraded(e mail.Email, task string, err error) {
	d.logger.Warn("sub-task degraded",
		logging.EmailID(e.ID),
		logging.Err(&EnrichmentError{Task: task, Err: err}))
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
