package mailcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/inbucket/mailcheck/pkg/rest/client"
	"github.com/inbucket/mailcheck/pkg/stringutil"
	"github.com/jhillyerd/enmime/v2"
)

// WaitForLatestMessageBody waits until the mailbox for address holds at least n messages and
// returns the body of the n-th newest one (n=1 is the newest).  The text and HTML parts are
// joined with a newline, quoted-printable decoded and CRLF normalized to LF.  n < 1 selects the
// newest message; timeout <= 0 uses the configured wait timeout.
func (h *Helper) WaitForLatestMessageBody(
	ctx context.Context, address string, n int, timeout time.Duration) (string, error) {
	header, err := h.waitForHeader(ctx, address, n, timeout)
	if err != nil {
		return "", err
	}
	msg, err := h.GetMessage(ctx, MailboxFromAddress(address), header.ID)
	if err != nil {
		return "", err
	}
	return stringutil.JoinBody(msg.TextAndHTML()), nil
}

// WaitForLatestEnvelope waits like WaitForLatestMessageBody, but downloads the raw message source
// and parses it into a MIME envelope.
func (h *Helper) WaitForLatestEnvelope(
	ctx context.Context, address string, n int, timeout time.Duration) (*enmime.Envelope, error) {
	header, err := h.waitForHeader(ctx, address, n, timeout)
	if err != nil {
		return nil, err
	}
	source, err := h.client.GetMessageSource(ctx, MailboxFromAddress(address), header.ID)
	if err != nil {
		return nil, err
	}
	env, err := enmime.ReadEnvelope(source)
	if err != nil {
		return nil, fmt.Errorf("parse message %s: %w", header.ID, err)
	}
	return env, nil
}

// waitForHeader polls the mailbox until it holds n messages or the deadline passes.  The clock is
// re-read after every sleep, so the total wait is bounded by timeout rather than a poll count.
func (h *Helper) waitForHeader(
	ctx context.Context, address string, n int, timeout time.Duration) (*client.MessageHeader, error) {
	if n < 1 {
		n = 1
	}
	if timeout <= 0 {
		timeout = h.conf.WaitTimeout
	}
	if timeout <= 0 {
		timeout = defaultWaitTimeout
	}
	interval := h.conf.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	mailbox := MailboxFromAddress(address)
	slog := h.logger.With().Str("mailbox", mailbox).Int("n", n).Logger()

	start := h.now()
	deadline := start.Add(timeout)
	for now := start; !now.After(deadline); now = h.now() {
		headers, err := h.ListMailbox(ctx, mailbox)
		if err != nil {
			return nil, err
		}
		if len(headers) >= n {
			header := headers[len(headers)-n]
			slog.Debug().Str("id", header.ID).Int("count", len(headers)).Msg("Found message")
			return header, nil
		}
		slog.Debug().Int("count", len(headers)).Msg("Waiting for message")
		if err := h.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}

	waited := h.now().Sub(start)
	slog.Warn().Dur("waited", waited).Msg("Gave up waiting for message")
	return nil, &NotFoundError{Address: address, N: n, Waited: waited}
}
