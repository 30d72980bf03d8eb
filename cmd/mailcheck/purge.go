package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/inbucket/mailcheck/pkg/mailcheck"
)

type purgeCmd struct{}

func (*purgeCmd) Name() string {
	return "purge"
}

func (*purgeCmd) Synopsis() string {
	return "delete all messages in mailboxes"
}

func (*purgeCmd) Usage() string {
	return `purge <mailbox or address>...:
	delete every message in each mailbox
`
}

func (p *purgeCmd) SetFlags(f *flag.FlagSet) {}

func (p *purgeCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return usage("mailbox required")
	}

	h, err := newHelper()
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	status := subcommands.ExitSuccess
	for _, arg := range f.Args() {
		mailbox := mailcheck.MailboxFromAddress(arg)
		resp, err := h.DeleteMailbox(ctx, mailbox)
		if err != nil {
			return fatal("Purge REST call failed", err)
		}
		fmt.Printf("%s: %s\n", mailbox, resp.Status)
		if resp.StatusCode/100 != 2 {
			status = subcommands.ExitFailure
		}
	}

	return status
}
