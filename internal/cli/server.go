package cli

import (
	"context"
	"fmt"

	"server-runner/internal/client"
	"server-runner/internal/models"

	"github.com/spf13/cobra"
)

func serverCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "server",
		Short: "Control the game server container",
	}

	c.AddCommand(containerActionCmd(opts, "start", "Start the game server", (*client.Client).Start))
	c.AddCommand(containerActionCmd(opts, "stop", "Stop the game server", (*client.Client).Stop))
	c.AddCommand(containerActionCmd(opts, "status", "Show the game server state", (*client.Client).Status))
	return c
}

func containerActionCmd(opts *rootOptions, use, short string, action func(*client.Client, context.Context) (*models.ContainerStatus, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := action(opts.client(), cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status.Name, status.State)
			return nil
		},
	}
}
