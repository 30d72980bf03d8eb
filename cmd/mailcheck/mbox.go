package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/inbucket/mailcheck/pkg/mailcheck"
	"github.com/inbucket/mailcheck/pkg/rest/client"
)

type mboxCmd struct {
	delete bool
}

func (*mboxCmd) Name() string {
	return "mbox"
}

func (*mboxCmd) Synopsis() string {
	return "output mailbox in mbox format"
}

func (*mboxCmd) Usage() string {
	return `mbox [flags] <mailbox or address>:
	output mailbox in mbox format
`
}

func (m *mboxCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&m.delete, "delete", false, "delete messages after output")
}

func (m *mboxCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	mailbox := f.Arg(0)
	if mailbox == "" {
		return usage("mailbox required")
	}

	h, err := newHelper()
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	// Get list
	headers, err := h.Client().ListMailbox(ctx, mailcheck.MailboxFromAddress(mailbox))
	if err != nil {
		return fatal("List REST call failed", err)
	}
	err = outputMbox(ctx, os.Stdout, headers)
	if err != nil {
		return fatal("Error", err)
	}

	// Optionally, delete retrieved messages
	if m.delete {
		for _, h := range headers {
			err = h.Delete(ctx)
			if err != nil {
				return fatal("Delete REST call failed", err)
			}
		}
	}

	return subcommands.ExitSuccess
}

// outputMbox renders messages in mboxrd format to w.
func outputMbox(ctx context.Context, w io.Writer, headers []*client.MessageHeader) error {
	for _, h := range headers {
		source, err := h.GetSource(ctx)
		if err != nil {
			return fmt.Errorf("get source REST failed: %w", err)
		}

		if _, err := fmt.Fprintf(w, "From %s\n", h.From); err != nil {
			return err
		}
		if _, err := w.Write(escapeFromLines(source.Bytes())); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// escapeFromLines prefixes lines matching ^>*From with '>', so readers do not mistake them for
// message separators.
func escapeFromLines(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for _, line := range bytes.SplitAfter(src, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, ">"), []byte("From ")) {
			out = append(out, '>')
		}
		out = append(out, line...)
	}
	return out
}
