package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func logsCmd(opts *rootOptions) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the game server log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			c := opts.client()

			logs, err := c.Logs(cmd.Context(), lines)
			if err != nil {
				return err
			}
			for _, line := range logs {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return c.FollowLogs(cmd.Context(), func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of trailing lines, 0 for all")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new lines")
	return cmd
}
