// Package main implements a command line client for reading and clearing Inbucket mailboxes
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/subcommands"
	"github.com/inbucket/mailcheck/pkg/config"
	"github.com/inbucket/mailcheck/pkg/mailcheck"
	"github.com/inbucket/mailcheck/pkg/rest/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	conf *config.Root

	host      = flag.String("host", "", "host/IP of Inbucket server, overrides LOCAL_EMAIL_HOST")
	port      = flag.String("port", "", "HTTP port of Inbucket server, overrides EMAIL_PORT")
	requestID = flag.String("request-id", "", "X-Request-ID sent with every REST call")
	logLevel  = flag.String("loglevel", "", "debug, info, warn, or error, overrides EMAIL_LOG_LEVEL")
	logJSON   = flag.Bool("logjson", false, "Logs are written in JSON format.")
)

func main() {
	// Important top-level flags
	subcommands.ImportantFlag("host")
	subcommands.ImportantFlag("port")

	// Setup standard helpers
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	// Setup my commands
	subcommands.Register(&listCmd{}, "")
	subcommands.Register(&waitCmd{}, "")
	subcommands.Register(&mboxCmd{}, "")
	subcommands.Register(&purgeCmd{}, "")
	subcommands.Register(&envCmd{}, "")

	// Parse and execute
	flag.Parse()
	var err error
	conf, err = config.Process()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		config.Usage()
		os.Exit(int(subcommands.ExitUsageError))
	}
	if *host != "" {
		conf.LocalHost = *host
	}
	if *port != "" {
		conf.Port = *port
	}
	if *logLevel != "" {
		conf.LogLevel = *logLevel
	}
	if err := openLog(conf.LogLevel, os.Stderr, *logJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Log error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if *requestID != "" {
		ctx = client.WithRequestID(ctx, *requestID)
	}
	status := subcommands.Execute(ctx)
	cancel()
	os.Exit(int(status))
}

// newHelper builds a mailcheck helper from the processed configuration.
func newHelper() (*mailcheck.Helper, error) {
	return mailcheck.New(conf)
}

// openLog configures zerolog output.
func openLog(level string, w io.Writer, json bool) error {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		return fmt.Errorf("log level %q not one of: debug, info, warn, error", level)
	}
	w = zerolog.SyncWriter(w)
	if json {
		log.Logger = log.Output(w)
		return nil
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     w,
		NoColor: runtime.GOOS == "windows",
	})
	return nil
}

func fatal(msg string, err error) subcommands.ExitStatus {
	log.Error().Err(err).Msg(msg)
	return subcommands.ExitFailure
}

func usage(msg string) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, msg)
	return subcommands.ExitUsageError
}
