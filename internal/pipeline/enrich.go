package pipeline

import (
	"context"
	"slices"
	"strings"

	"github.com/teemow/inboxagent/internal/campaign"
	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/settle"
)

// SkippedNoLocation marks a nomination that has no location and whose
// nominator has no town either.
const SkippedNoLocation = "no location for the nominated business"

// Enrich completes every named nomination: it fills in a missing location
// from the nominator's town, looks up a missing link and renders the
// interview invitation. Nominations are processed concurrently and one
// failure never affects the others. Records without a business name are
// returned unchanged.
func (d *Dispatcher) Enrich(ctx context.Context, details campaign.BusinessDetails, noms campaign.Nominations) campaign.Nominations {
	out := slices.Clone(noms)
	outcomes := settle.All(ctx, len(out), 0, func(ctx context.Context, i int) (campaign.Nomination, error) {
		return d.enrichOne(ctx, details, out[i]), nil
	})
	for _, o := range outcomes {
		if o.Err != nil {
			d.logger.Warn("nomination enrichment failed",
				logging.Err(&EnrichmentError{Task: "nomination " + out[o.Index].BusinessName, Err: o.Err}))
			continue
		}
		out[o.Index] = o.Value
	}

	d.logger.Debug("nominations enriched", "result", settle.Summarize(outcomes).String())
	return out
}

func (d *Dispatcher) enrichOne(ctx context.Context, details campaign.BusinessDetails, n campaign.Nomination) campaign.Nomination {
	if n.BusinessName == "" {
		return n
	}
	if n.Location == "" {
		n.Location = details.Town
	}
	if n.Location == "" {
		n.Skipped = SkippedNoLocation
		return n
	}

	if n.Link == "" && d.lookup != nil {
		query := strings.TrimSpace(n.BusinessName + " " + n.Location)
		link, err := d.lookup.FindMissingLink(ctx, query)
		if err != nil {
			d.logger.Warn("nomination link lookup failed",
				logging.Err(&EnrichmentError{Task: "link for " + n.BusinessName, Err: err}))
		} else {
			n.Link = link
		}
	}

	inv := d.sender.Invitation(details, n)
	n.Invitation = &inv
	return n
}
