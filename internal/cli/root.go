// Package cli implements runnerctl, the command line front end of the control API.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"server-runner/internal/client"

	"github.com/spf13/cobra"
)

const envToken = "RUNNER_TOKEN"

type rootOptions struct {
	url     string
	token   string
	timeout time.Duration
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.url, o.token, o.timeout)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "runnerctl",
		Short:        "Control a server-runner instance: backups, the game server and remote sync",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.url, "url", client.DefaultBaseURL, "server-runner base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv(envToken), "bearer token (defaults to $"+envToken+")")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Minute, "request timeout, 0 for none")

	cmd.AddCommand(loginCmd(opts))
	cmd.AddCommand(backupCmd(opts))
	cmd.AddCommand(serverCmd(opts))
	cmd.AddCommand(logsCmd(opts))
	cmd.AddCommand(syncCmd(opts))
	return cmd
}
