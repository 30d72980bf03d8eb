package config

import (
	"log"
	"net"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// DefaultPort is the Inbucket web port used when EMAIL_PORT is unset.
	DefaultPort = "9000"

	// DefaultHost is the Inbucket host used when EMAIL_HOST is unset.
	DefaultHost = "127.0.0.1"

	prefix      = ""
	tableFormat = `mailcheck is configured via the environment. The following environment
variables can be used:

KEY	DEFAULT	REQUIRED	DESCRIPTION
{{range .}}{{usage_key .}}	{{usage_default .}}	{{usage_required .}}	{{usage_description .}}
{{end}}`
)

// Root holds the Inbucket endpoint and polling configuration.
type Root struct {
	Port         string        `envconfig:"EMAIL_PORT" default:"9000" desc:"Inbucket web port"`
	Host         string        `envconfig:"EMAIL_HOST" default:"127.0.0.1" desc:"Inbucket host as seen by the system under test"`
	LocalHost    string        `envconfig:"LOCAL_EMAIL_HOST" desc:"Inbucket host as seen by the test runner, defaults to EMAIL_HOST"`
	WaitTimeout  time.Duration `envconfig:"EMAIL_WAIT_TIMEOUT" default:"10s" desc:"Default time to wait for a message"`
	PollInterval time.Duration `envconfig:"EMAIL_POLL_INTERVAL" default:"500ms" desc:"Sleep between mailbox polls"`
	HTTPTimeout  time.Duration `envconfig:"EMAIL_HTTP_TIMEOUT" default:"30s" desc:"Timeout for a single REST call, 0 keeps the client default"`
	LogLevel     string        `envconfig:"EMAIL_LOG_LEVEL" default:"info" desc:"debug, info, warn, or error"`
}

// Process loads and parses configuration from the environment.
func Process() (*Root, error) {
	c := &Root{}
	err := envconfig.Process(prefix, c)
	return c, err
}

// Usage prints out the envconfig usage to Stderr.
func Usage() {
	tabs := tabwriter.NewWriter(os.Stderr, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(prefix, &Root{}, tabs, tableFormat); err != nil {
		log.Fatalf("Unable to parse env config: %v", err)
	}
	tabs.Flush()
}

// EmailHost returns the host name or address of the Inbucket server from the point of view of
// the system under test.
func (r *Root) EmailHost() string {
	if r.Host == "" {
		return DefaultHost
	}
	return r.Host
}

// LocalEmailHost returns the host name or address of the Inbucket server from the point of view
// of the test runner.
func (r *Root) LocalEmailHost() string {
	if r.LocalHost == "" {
		return r.EmailHost()
	}
	return r.LocalHost
}

// EmailPort returns the Inbucket web port.
func (r *Root) EmailPort() string {
	if r.Port == "" {
		return DefaultPort
	}
	return r.Port
}

// LocalEmailURL returns the base URL the test runner uses to read and delete messages, ex:
// "http://127.0.0.1:9000"
func (r *Root) LocalEmailURL() string {
	return "http://" + net.JoinHostPort(r.LocalEmailHost(), r.EmailPort())
}
