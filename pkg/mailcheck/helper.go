// Package mailcheck lets acceptance tests read and clear mail captured by an Inbucket server.
package mailcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/inbucket/mailcheck/pkg/config"
	"github.com/inbucket/mailcheck/pkg/policy"
	"github.com/inbucket/mailcheck/pkg/rest/client"
	"github.com/inbucket/mailcheck/pkg/stringutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DateTimePattern matches "YYYY-MM-DD HH:MM:SS" timestamps in message bodies.
	DateTimePattern = stringutil.DateTimePattern

	// listRetryDelay is how long ListMailbox waits before re-reading an empty mailbox; Inbucket
	// creates mailboxes lazily on first delivery.
	listRetryDelay = time.Second

	defaultWaitTimeout  = 10 * time.Second
	defaultPollInterval = 500 * time.Millisecond
)

// ErrMessageNotFound is matched by the error returned when a wait times out.
var ErrMessageNotFound = errors.New("message not found")

// NotFoundError is returned when no qualifying message arrived before the deadline.
type NotFoundError struct {
	Address string
	N       int
	Waited  time.Duration
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find the email to the address: %s", e.Address)
}

func (e *NotFoundError) Unwrap() error {
	return ErrMessageNotFound
}

// Helper reads and deletes mail through the Inbucket REST API.
type Helper struct {
	client     *client.Client
	conf       *config.Root
	logger     zerolog.Logger
	clientOpts []func(*client.ClientOptions)
	retryDelay time.Duration
	now        func() time.Time
	sleep      func(context.Context, time.Duration) error
}

// Option configures a Helper.
type Option func(*Helper)

// WithLogger replaces the default module logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Helper) {
		h.logger = logger
	}
}

// WithClientOptions passes options through to the REST client.  They are applied after the
// configured HTTP timeout, so WithClientOptsTimeout(0) here disables the timeout entirely.
func WithClientOptions(opts ...func(*client.ClientOptions)) Option {
	return func(h *Helper) {
		h.clientOpts = append(h.clientOpts, opts...)
	}
}

// New creates a Helper talking to the local Inbucket URL derived from conf.  A zero
// conf.HTTPTimeout keeps the REST client's default timeout.
func New(conf *config.Root, opts ...Option) (*Helper, error) {
	h := &Helper{
		conf:       conf,
		logger:     log.With().Str("module", "mailcheck").Logger(),
		retryDelay: listRetryDelay,
		now:        time.Now,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(h)
	}
	var copts []func(*client.ClientOptions)
	if conf.HTTPTimeout > 0 {
		copts = append(copts, client.WithClientOptsTimeout(conf.HTTPTimeout))
	}
	c, err := client.New(conf.LocalEmailURL(), append(copts, h.clientOpts...)...)
	if err != nil {
		return nil, err
	}
	h.client = c
	return h, nil
}

// FromEnv creates a Helper configured from EMAIL_* environment variables.
func FromEnv(opts ...Option) (*Helper, error) {
	conf, err := config.Process()
	if err != nil {
		return nil, fmt.Errorf("mailcheck config: %w", err)
	}
	return New(conf, opts...)
}

// MailboxFromAddress returns the Inbucket mailbox name for an email address.
func MailboxFromAddress(address string) string {
	return policy.MailboxFromAddress(address)
}

// URL returns the Inbucket base URL used by this helper.
func (h *Helper) URL() string {
	return h.client.BaseURL()
}

// Client exposes the underlying REST client.
func (h *Helper) Client() *client.Client {
	return h.client
}

// ListMailbox returns the message headers in mailbox, oldest first.  An empty mailbox is
// re-read once after a one second pause, the result of the second read is returned as is.
func (h *Helper) ListMailbox(ctx context.Context, mailbox string) ([]*client.MessageHeader, error) {
	headers, err := h.client.ListMailbox(ctx, mailbox)
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		return headers, nil
	}
	h.logger.Info().Str("mailbox", mailbox).Msg("Mailbox is empty, retrying")
	if err := h.sleep(ctx, h.retryDelay); err != nil {
		return nil, err
	}
	return h.client.ListMailbox(ctx, mailbox)
}

// GetMessage fetches a single message by ID.
func (h *Helper) GetMessage(ctx context.Context, mailbox, id string) (*client.Message, error) {
	return h.client.GetMessage(ctx, mailbox, id)
}

// DeleteMailbox purges the mailbox on this helper's Inbucket server.
func (h *Helper) DeleteMailbox(ctx context.Context, mailbox string) (*http.Response, error) {
	h.logger.Debug().Str("mailbox", mailbox).Msg("Purging mailbox")
	return h.client.PurgeMailbox(ctx, mailbox)
}

// DeleteMailbox purges mailbox on the Inbucket server at baseURL.  The raw response is returned;
// only transport failures are errors.
func DeleteMailbox(ctx context.Context, baseURL, mailbox string) (*http.Response, error) {
	c, err := client.New(baseURL)
	if err != nil {
		return nil, err
	}
	return c.PurgeMailbox(ctx, mailbox)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
