package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/mail"
	"github.com/teemow/inboxagent/internal/prompts"
)

// Classifier assigns a category to an email.
type Classifier struct {
	model     Model
	retriever Retriever
	logger    *slog.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(model Model, retriever Retriever, logger *slog.Logger) *Classifier {
	return &Classifier{
		model:     model,
		retriever: retriever,
		logger:    logging.OrDefault(logger),
	}
}

// Classify asks the model for the category of e. The email must already be
// indexed in the retriever. Any failure is a *ClassificationError.
func (c *Classifier) Classify(ctx context.Context, e mail.Email) (dec Decision, err error) {
	ctx, span := instrumentation.StartSpan(ctx, "email.classify",
		instrumentation.NewSpanAttributeBuilder().WithEmail(e.ID).Build()...)
	defer func() { instrumentation.EndSpan(span, err) }()

	p := prompts.ClassifyPrompt()
	raw, err := complete(ctx, c.model, c.retriever, prompts.Classify.Tier, prompts.Classify.TopK, p)
	if err != nil {
		return Decision{}, &ClassificationError{EmailID: e.ID, Err: err}
	}

	dec, err = parseDecision(raw)
	if err != nil {
		return Decision{}, &ClassificationError{EmailID: e.ID, Err: fmt.Errorf("decode decision: %w", err)}
	}

	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().WithCategory(dec.Category.String()).Build()...)
	c.logger.Debug("email classified",
		logging.EmailID(e.ID),
		logging.Category(dec.Category.String()),
		slog.String("explanation", dec.Explanation))
	return dec, nil
}
