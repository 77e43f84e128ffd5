package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/mail"
	"github.com/teemow/inboxagent/internal/prompts"
)

// handleNominations extracts the nominated businesses, writes their
// invitations and a thank-you note for the nominator, and persists them.
func (d *Dispatcher) handleNominations(ctx context.Context, e mail.Email, dec Decision) (Result, error) {
	noms, err := d.extractNominations(ctx, dec.Explanation)
	if err != nil {
		return Result{Category: dec.Category}, &HandlerError{Category: dec.Category, Stage: StageModel, Err: fmt.Errorf("extract nominations: %w", err)}
	}

	details := d.businessDetails(ctx, e, prompts.NominatorDetails, false)
	noms = d.Enrich(ctx, details, noms)
	note := d.thankYou(ctx, e)

	d.logger.Info("nominations processed",
		logging.EmailID(e.ID),
		slog.Int("nominations", len(noms.Named())))

	b := d.bundle(e, dec)
	b.Nominations = noms.JSON()
	b.ThankYouNote = note
	return d.persistAndArchive(ctx, e, dec, b)
}

// thankYou writes a note thanking the nominator. It returns "" on failure.
func (d *Dispatcher) thankYou(ctx context.Context, e mail.Email) string {
	raw, err := d.model.Invoke(ctx, prompts.Questions.Tier, d.persona.ThankYou(e.Text))
	if err != nil {
		d.degraded(e, "thank-you note", err)
		return ""
	}
	reply, err := parseReply(raw)
	if err != nil {
		d.degraded(e, "thank-you note", err)
		return ""
	}
	return reply.String()
}
