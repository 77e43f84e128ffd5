package pipeline

import (
	"context"
	"fmt"

	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/mail"
	"github.com/teemow/inboxagent/internal/prompts"
)

// handleReply generates a reply for one of the reply categories, persists it
// and archives the email.
func (d *Dispatcher) handleReply(ctx context.Context, e mail.Email, dec Decision, spec prompts.Spec) (Result, error) {
	fail := func(stage string, err error) (Result, error) {
		return Result{Category: dec.Category}, &HandlerError{Category: dec.Category, Stage: stage, Err: err}
	}

	p := d.persona.Reply(spec, dec.Explanation)
	raw, err := complete(ctx, d.model, d.retriever, spec.Tier, spec.TopK, p)
	if err != nil {
		return fail(StageModel, err)
	}

	reply, err := parseReply(raw)
	if err != nil {
		return fail(StageParse, fmt.Errorf("decode reply: %w", err))
	}

	d.logger.Info("reply generated",
		logging.EmailID(e.ID),
		logging.Category(dec.Category.String()))

	b := d.bundle(e, dec)
	b.GeneratedResponse = reply.String()
	b.ResponseObject = marshal(reply)
	return d.persistAndArchive(ctx, e, dec, b)
}
