package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/inbucket/mailcheck/pkg/mailcheck"
)

type listCmd struct {
	output string
}

func (*listCmd) Name() string {
	return "list"
}

func (*listCmd) Synopsis() string {
	return "list contents of mailbox"
}

func (*listCmd) Usage() string {
	return `list [flags] <mailbox or address>:
	list message IDs in mailbox, oldest first
`
}

func (l *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&l.output, "output", "id", "output format: id or json")
}

func (l *listCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	mailbox := f.Arg(0)
	if mailbox == "" {
		return usage("mailbox required")
	}
	if l.output != "id" && l.output != "json" {
		return usage("unknown output type: " + l.output)
	}

	h, err := newHelper()
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	// Get list
	headers, err := h.ListMailbox(ctx, mailcheck.MailboxFromAddress(mailbox))
	if err != nil {
		return fatal("REST call failed", err)
	}
	if l.output == "json" {
		jsonEncoder := json.NewEncoder(os.Stdout)
		jsonEncoder.SetEscapeHTML(false)
		jsonEncoder.SetIndent("", "  ")
		if err := jsonEncoder.Encode(headers); err != nil {
			return fatal("Error", err)
		}
		return subcommands.ExitSuccess
	}
	for _, h := range headers {
		fmt.Println(h.ID)
	}

	return subcommands.ExitSuccess
}
