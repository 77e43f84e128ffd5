package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/logging"
	"github.com/teemow/inboxagent/internal/mail"
)

const (
	// DefaultQuery selects every message in the inbox.
	DefaultQuery = "in:inbox"

	// DefaultMaxResults bounds one fetch.
	DefaultMaxResults = 500

	me = "me"
)

// Config configures a Client.
type Config struct {
	Account    string
	Query      string
	MaxResults int64
	Cleaner    mail.Cleaner
	Logger     *slog.Logger
	Metrics    *instrumentation.Metrics
}

// Client wraps the Gmail Users service for one account.
type Client struct {
	svc     *gmail.UsersService
	account string
	query   string
	max     int64
	cleaner mail.Cleaner
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewClient creates a client using hc for transport. Extra options are passed
// to the Gmail service, which tests use to point it at a fake endpoint.
func NewClient(ctx context.Context, hc *http.Client, cfg Config, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	if cfg.Query == "" {
		cfg.Query = DefaultQuery
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Cleaner.NoiseMarkers == nil && cfg.Cleaner.Boilerplate == nil {
		cfg.Cleaner = mail.DefaultCleaner
	}

	return &Client{
		svc:     svc.Users,
		account: cfg.Account,
		query:   cfg.Query,
		max:     cfg.MaxResults,
		cleaner: cfg.Cleaner,
		logger:  logging.OrDefault(cfg.Logger).With(slog.String("component", "gmail")),
		metrics: cfg.Metrics,
	}, nil
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// FetchAll returns every message matching the client's query, oldest first.
// A message that cannot be read is logged and left out of the batch.
func (c *Client) FetchAll(ctx context.Context) (emails []mail.Email, err error) {
	ctx, span := instrumentation.StartClientSpan(ctx, "gmail.fetch")
	start := time.Now()
	defer func() {
		c.metrics.RecordMailOperation(ctx, instrumentation.MailFetch, instrumentation.StatusFromError(err), time.Since(start))
		instrumentation.EndSpan(span, err)
	}()

	ids, err := c.listMessageIDs(ctx)
	if err != nil {
		return nil, err
	}

	emails = make([]mail.Email, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		e, err := c.fetchMessage(ctx, ids[i])
		if err != nil {
			if ctx.Err() != nil {
				return emails, ctx.Err()
			}
			c.logger.WarnContext(ctx, "skipping unreadable message",
				slog.String("message_id", ids[i]), logging.Err(err))
			continue
		}
		emails = append(emails, e)
	}

	c.logger.InfoContext(ctx, "fetched messages", slog.Int("count", len(emails)))
	return emails, nil
}

// listMessageIDs lists message ids matching the query, newest first, up to
// the configured maximum.
func (c *Client) listMessageIDs(ctx context.Context) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := c.max - int64(len(ids))
		if remaining <= 0 {
			break
		}

		req := c.svc.Messages.List(me).Q(c.query).MaxResults(min(remaining, 100)).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(ids)) > c.max {
		ids = ids[:c.max]
	}
	return ids, nil
}

func (c *Client) fetchMessage(ctx context.Context, id string) (mail.Email, error) {
	msg, err := c.svc.Messages.Get(me, id).Format("full").Context(ctx).Do()
	if err != nil {
		return mail.Email{}, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	e := c.toEmail(msg)

	atts, err := c.attachments(ctx, msg)
	if err != nil {
		return mail.Email{}, err
	}
	e.Attachments = atts
	return e, nil
}

// Archive removes the message from the inbox.
func (c *Client) Archive(ctx context.Context, uid string) (err error) {
	ctx, span := instrumentation.StartClientSpan(ctx, "gmail.archive")
	start := time.Now()
	defer func() {
		c.metrics.RecordMailOperation(ctx, instrumentation.MailArchive, instrumentation.StatusFromError(err), time.Since(start))
		instrumentation.EndSpan(span, err)
	}()

	if uid == "" {
		return fmt.Errorf("message uid is required")
	}
	_, err = c.svc.Messages.Modify(me, uid, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"INBOX"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to archive message %s: %w", uid, err)
	}
	return nil
}
