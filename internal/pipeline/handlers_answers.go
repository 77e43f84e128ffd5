package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teemow/inboxagent/internal/article"
	"github.com/teemow/inboxagent/internal/campaign"
	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/mail"
	"github.com/teemow/inboxagent/internal/prompts"
	"github.com/teemow/inboxagent/internal/settle"
)

// handleAnswers extracts the interview answers, business details and
// nominations of e, renders the article and persists everything.
func (d *Dispatcher) handleAnswers(ctx context.Context, e mail.Email, dec Decision) (Result, error) {
	qas := d.extractQA(ctx, e)
	keywords := d.keywords(ctx, e, qas)
	details := d.businessDetails(ctx, e, prompts.BusinessDetails, true)

	noms, err := d.extractNominations(ctx, "")
	switch {
	case err != nil:
		d.degraded(e, "nominations", err)
		noms = campaign.Nominations{}
	case !noms.Any():
		noms = campaign.Nominations{}
	default:
		noms = d.Enrich(ctx, details, noms)
	}

	profile := campaign.Profile{
		QA:              qas,
		Keywords:        keywords,
		Details:         details,
		Nominations:     noms,
		OriginalMessage: originalHeaders(e),
	}
	a := article.Generate(profile, d.article)

	d.logger.Info("article generated",
		logging.EmailID(e.ID),
		slog.Int("answered", profile.AnsweredCount()),
		slog.Int("nominations", len(noms.Named())))

	b := d.bundle(e, dec)
	b.Article = a.String()
	b.Nominations = noms.JSON()
	b.ResponseObject = profile.JSON()
	return d.persistAndArchive(ctx, e, dec, b)
}

// extractQA asks for the answer to every campaign question. The calls run
// concurrently but are spaced by the QA interval. Failed questions are
// dropped; the rest keep their question order.
func (d *Dispatcher) extractQA(ctx context.Context, e mail.Email) []campaign.QA {
	limiter := newLimiter(d.qaInterval)
	outcomes := settle.All(ctx, len(campaign.Questions), 0, func(ctx context.Context, i int) (campaign.QA, error) {
		q := campaign.Questions[i]
		if err := limiter.Wait(ctx); err != nil {
			return campaign.QA{}, err
		}
		raw, err := complete(ctx, d.model, d.retriever, prompts.QA.Tier, prompts.QA.TopK, prompts.QAPrompt(q))
		if err != nil {
			return campaign.QA{}, err
		}
		return campaign.ParseQA(raw, q)
	})

	qas := make([]campaign.QA, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			d.degraded(e, fmt.Sprintf("question %d", o.Index+1), o.Err)
			continue
		}
		qas = append(qas, o.Value)
	}
	return qas
}

// keywords generates the hashtags describing the business from its answers.
func (d *Dispatcher) keywords(ctx context.Context, e mail.Email, qas []campaign.QA) string {
	answers := campaign.Answers(qas)
	if answers == "" {
		return ""
	}
	raw, err := d.model.Invoke(ctx, prompts.Keywords.Tier, prompts.KeywordsPrompt(answers))
	if err != nil {
		d.degraded(e, "keywords", err)
		return ""
	}
	return strings.Join(strings.Fields(campaign.TrimFences(raw)), " ")
}

// businessDetails extracts the details of the sender's business. With
// enrich set, the lookup agent fills in what the email did not say.
// Failures degrade to whatever was found.
func (d *Dispatcher) businessDetails(ctx context.Context, e mail.Email, spec prompts.Spec, enrich bool) campaign.BusinessDetails {
	raw, err := complete(ctx, d.model, d.retriever, spec.Tier, spec.TopK, prompts.DetailsPrompt(spec))
	if err != nil {
		d.degraded(e, "business details", err)
		return campaign.BusinessDetails{}
	}
	details, err := campaign.ParseBusinessDetails(raw)
	if err != nil {
		d.degraded(e, "business details", err)
		return campaign.BusinessDetails{}
	}

	if !enrich || d.lookup == nil || len(details.Missing()) == 0 {
		return details
	}
	found, err := d.lookup.FindMissingBusinessDetails(ctx, details)
	if err != nil {
		d.degraded(e, "business details lookup", err)
		return details
	}
	return found
}

// extractNominations asks for the businesses nominated in the email.
func (d *Dispatcher) extractNominations(ctx context.Context, explanation string) (campaign.Nominations, error) {
	spec := prompts.Nominations
	raw, err := complete(ctx, d.model, d.retriever, spec.Tier, spec.TopK, prompts.NominationsPrompt(explanation))
	if err != nil {
		return nil, err
	}
	return campaign.ParseNominations(raw)
}

func originalHeaders(e mail.Email) mail.Headers {
	if e.Original != nil {
		return *e.Original
	}
	return e.Headers
}
