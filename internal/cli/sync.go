package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"server-runner/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func syncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Mirror backups between the server and the remote bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := opts.client().Sync(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Already in sync")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DIRECTION\tFILE\tSIZE\tTOOK")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Direction, r.FileName, humanize.IBytes(uint64(r.SizeBytes)), transferTook(r))
			}
			return tw.Flush()
		},
	}
}

func transferTook(r models.TransferRecord) string {
	if r.Skipped {
		return "skipped"
	}
	took := r.UploadDuration
	if r.Direction == models.TransferDownload {
		took = r.DownloadDuration
	}
	return took.Round(time.Millisecond).String()
}
