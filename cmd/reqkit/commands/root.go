package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/reqkit/httpclient"
)

// Exit codes. Taxonomy codes do not fit in a process status, so they are
// grouped by side of the wire.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitRequestError  = 2
	ExitResponseError = 3
)

type globalOptions struct {
	configFile string
	envFile    string
	baseURL    string
	timeout    time.Duration
	verbose    bool
}

func (g *globalOptions) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&g.configFile, "config", "c", "", "config file (default is ./reqkit.yml or ~/.config/reqkit/config.yml)")
	fs.StringVar(&g.envFile, "env-file", "", "dotenv file loaded before reading REQKIT_* variables")
	fs.StringVar(&g.baseURL, "base-url", "", "base URL for relative paths")
	fs.DurationVar(&g.timeout, "timeout", 0, "per-request timeout")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
}

// NewRootCommand builds the reqkit command tree.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "reqkit",
		Short: "Typed HTTP request pipeline",
		Long: `reqkit sends HTTP requests through the reqkit client pipeline: base URL
resolution, default headers, bearer authentication with token refresh,
status validation and decoding.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	g.bind(cmd.PersistentFlags())

	cmd.AddCommand(newSendCommand(g))
	cmd.AddCommand(newTokenCommand(g))
	cmd.AddCommand(newStatusCommand(g))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// Execute runs the root command with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case httpclient.IsRequestError(err):
		return ExitRequestError
	case httpclient.IsResponseError(err):
		return ExitResponseError
	default:
		return ExitFailure
	}
}
