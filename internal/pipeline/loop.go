package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/mail"
	"github.com/teemow/inboxagent/internal/usage"
)

// Summary counts what one run did.
type Summary struct {
	Fetched   int `json:"fetched"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Archived  int `json:"archived"`
}

func (s Summary) String() string {
	return fmt.Sprintf("fetched=%d processed=%d skipped=%d failed=%d archived=%d",
		s.Fetched, s.Processed, s.Skipped, s.Failed, s.Archived)
}

// Loop processes the inbox one email at a time.
type Loop struct {
	mailbox    Mailbox
	sink       Sink
	retriever  Retriever
	ledger     *usage.Ledger
	classifier *Classifier
	dispatcher *Dispatcher
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	audit      *instrumentation.AuditLogger
}

// New creates a Loop from cfg.
func New(cfg Config) (*Loop, error) {
	dispatcher, err := NewDispatcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	logger := logging.OrDefault(cfg.Logger).With(slog.String("component", "pipeline"))
	dispatcher.logger = logger

	return &Loop{
		mailbox:    cfg.Mailbox,
		sink:       cfg.Sink,
		retriever:  cfg.Retriever,
		ledger:     cfg.Ledger,
		classifier: NewClassifier(cfg.Model, cfg.Retriever, logger),
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    cfg.Metrics,
		audit:      cfg.Audit,
	}, nil
}

// Run fetches the inbox and processes every email that has not been
// processed before. Per-email failures are logged and counted; they never
// stop the run. Run only returns early when ctx is done.
func (l *Loop) Run(ctx context.Context) Summary {
	var sum Summary

	emails, err := l.mailbox.FetchAll(ctx)
	if err != nil {
		l.logger.Error("failed to fetch emails", logging.Err(&FetchError{Err: err}))
		return sum
	}
	sum.Fetched = len(emails)
	l.logger.Info("inbox fetched", slog.Int("emails", len(emails)))

	for _, e := range emails {
		if ctx.Err() != nil {
			l.logger.Warn("run cancelled", logging.Err(ctx.Err()))
			break
		}

		done, err := l.sink.Exists(e.ID)
		if err != nil {
			l.logger.Error("failed to check email", logging.EmailID(e.ID), logging.Err(err))
			sum.Failed++
			continue
		}
		if done {
			sum.Skipped++
			continue
		}

		res, err := l.Process(ctx, e)
		if err != nil {
			sum.Failed++
			continue
		}
		sum.Processed++
		if res.Archived {
			sum.Archived++
		}
	}

	l.logger.Info("run finished",
		slog.Int("fetched", sum.Fetched),
		slog.Int("processed", sum.Processed),
		slog.Int("skipped", sum.Skipped),
		slog.Int("failed", sum.Failed),
		slog.Int("archived", sum.Archived))
	return sum
}

// Process indexes, classifies and dispatches a single email. The usage
// ledger is reset when it returns, whatever the outcome.
func (l *Loop) Process(ctx context.Context, e mail.Email) (res Result, err error) {
	start := time.Now()
	ctx, span := instrumentation.StartEmailSpan(ctx, e.ID)
	audit := instrumentation.NewEmailAudit(e.ID, e.Headers.Subject).WithSpanContext(ctx)
	logger := logging.WithEmail(l.logger, e.ID)

	defer func() {
		status := instrumentation.StatusFromError(err)
		l.metrics.RecordEmail(ctx, string(res.Category), status, time.Since(start))

		audit.Category = string(res.Category)
		audit.Archived = res.Archived
		l.audit.LogEmail(audit.Complete(status, err))
		instrumentation.EndSpan(span, err)
	}()

	err = l.ledger.Track(func() error {
		if err := l.retriever.Index(ctx, e); err != nil {
			return &ClassificationError{EmailID: e.ID, Err: fmt.Errorf("index email: %w", err)}
		}

		dec, err := l.classifier.Classify(ctx, e)
		if err != nil {
			return err
		}

		res, err = l.dispatcher.Dispatch(ctx, e, dec)
		res.Category = dec.Category
		audit.Cost = l.ledger.TotalCost()
		return err
	})
	if err != nil {
		l.logFailure(logger, err)
		return res, err
	}

	logger.Info("email processed",
		logging.Category(res.Category.String()),
		slog.Bool("persisted", res.Persisted),
		slog.Bool("archived", res.Archived),
		logging.Duration(time.Since(start)))
	return res, nil
}

func (l *Loop) logFailure(logger *slog.Logger, err error) {
	var (
		classErr   *ClassificationError
		unknownErr *UnknownCategoryError
		handlerErr *HandlerError
	)
	switch {
	case errors.As(err, &unknownErr):
		logger.Warn("unknown category, email left in inbox", slog.String("label", unknownErr.Label))
	case errors.As(err, &classErr):
		logger.Error("classification failed, email left in inbox", logging.Err(err))
	case errors.As(err, &handlerErr):
		logger.Error("handler failed, email left in inbox",
			logging.Category(handlerErr.Category.String()),
			slog.String("stage", handlerErr.Stage),
			logging.Err(err))
	default:
		logger.Error("processing failed, email left in inbox", logging.Err(err))
	}
}
