package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/inbucket/mailcheck/pkg/config"
)

type envCmd struct {
	usage bool
}

func (*envCmd) Name() string {
	return "env"
}

func (*envCmd) Synopsis() string {
	return "print resolved Inbucket endpoints"
}

func (*envCmd) Usage() string {
	return `env [flags]:
	print the Inbucket hosts and URL resolved from the environment
`
}

func (e *envCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&e.usage, "usage", false, "list supported environment variables")
}

func (e *envCmd) Execute(
	_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if e.usage {
		config.Usage()
		return subcommands.ExitSuccess
	}
	fmt.Printf("EMAIL_HOST=%s\n", conf.EmailHost())
	fmt.Printf("LOCAL_EMAIL_HOST=%s\n", conf.LocalEmailHost())
	fmt.Printf("EMAIL_PORT=%s\n", conf.EmailPort())
	fmt.Printf("URL=%s\n", conf.LocalEmailURL())
	fmt.Printf("EMAIL_WAIT_TIMEOUT=%s\n", conf.WaitTimeout)
	fmt.Printf("EMAIL_POLL_INTERVAL=%s\n", conf.PollInterval)
	return subcommands.ExitSuccess
}
