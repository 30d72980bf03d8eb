package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/inbucket/mailcheck/pkg/mailcheck"
)

type waitCmd struct {
	n       int
	timeout time.Duration
	mime    bool
}

func (*waitCmd) Name() string {
	return "wait"
}

func (*waitCmd) Synopsis() string {
	return "wait for a message and print its body"
}

func (*waitCmd) Usage() string {
	return `wait [flags] <address>:
	wait until the mailbox for address holds a message, then print the decoded body
	exit status will be 1 if no message arrived before the timeout
`
}

func (w *waitCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&w.n, "n", 1, "message to print counting back from the newest, 1 is the newest")
	f.DurationVar(&w.timeout, "timeout", 0, "how long to wait, defaults to EMAIL_WAIT_TIMEOUT")
	f.BoolVar(&w.mime, "mime", false, "parse the raw message source and print headers with the text part")
}

func (w *waitCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	address := f.Arg(0)
	if address == "" {
		return usage("address required")
	}

	h, err := newHelper()
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	if w.mime {
		env, err := h.WaitForLatestEnvelope(ctx, address, w.n, w.timeout)
		if err != nil {
			return waitFailed(err)
		}
		for _, k := range []string{"From", "To", "Subject", "Date"} {
			fmt.Printf("%s: %s\n", k, env.GetHeader(k))
		}
		fmt.Println()
		fmt.Print(env.Text)
		return subcommands.ExitSuccess
	}

	body, err := h.WaitForLatestMessageBody(ctx, address, w.n, w.timeout)
	if err != nil {
		return waitFailed(err)
	}
	fmt.Print(body)
	return subcommands.ExitSuccess
}

func waitFailed(err error) subcommands.ExitStatus {
	if errors.Is(err, mailcheck.ErrMessageNotFound) {
		return fatal("Timed out", err)
	}
	return fatal("REST call failed", err)
}
