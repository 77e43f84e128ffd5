package pipeline

import (
	"context"

	"github.com/teemow/inboxagent/internal/mail"
)

// handleSpam archives the email. Nothing is generated or saved, so a failed
// archive only costs a reclassification on the next run.
func (d *Dispatcher) handleSpam(ctx context.Context, e mail.Email, dec Decision) (Result, error) {
	return Result{Category: dec.Category, Archived: d.archive(ctx, e)}, nil
}
