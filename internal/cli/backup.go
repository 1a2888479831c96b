package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"server-runner/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func backupCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "backup",
		Short: "Manage world backups",
	}

	c.AddCommand(backupCreateCmd(opts))
	c.AddCommand(backupListCmd(opts))
	c.AddCommand(backupDeleteCmd(opts))
	c.AddCommand(backupLoadCmd(opts))
	c.AddCommand(backupUploadCmd(opts))
	c.AddCommand(backupHistoryCmd(opts))
	return c
}

func backupCreateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Archive the server data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			info, err := opts.client().CreateBackup(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s, sha256 %s)\n", info.FileName, humanize.IBytes(uint64(info.SizeBytes)), info.Checksum)
			return nil
		},
	}
}

func backupListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := opts.client().ListBackups(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no backups found)")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSIZE\tCREATED")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.FileName, humanize.IBytes(uint64(info.SizeBytes)), humanize.Time(info.CreatedAt))
			}
			return tw.Flush()
		},
	}
}

func backupDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().DeleteBackup(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func backupLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Restore a backup that is already on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.client().LoadBackup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printLoadResult(cmd, result)
			return nil
		},
	}
}

func backupUploadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a local zip archive and restore it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.client().UploadBackup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printLoadResult(cmd, result)
			return nil
		},
	}
}

func backupHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit    int
		fileName string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent backup operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				entries []*models.HistoryEntry
				err     error
			)
			if fileName != "" {
				entries, err = opts.client().FileHistory(cmd.Context(), fileName)
			} else {
				entries, err = opts.client().History(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no history)")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tOPERATION\tFILE\tSIZE\tACTOR")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.UTC().Format(time.RFC3339), e.Operation, e.FileName,
					humanize.IBytes(uint64(e.SizeBytes)), actorLabel(e))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	cmd.Flags().StringVarP(&fileName, "file", "f", "", "show every operation on one backup file")
	return cmd
}

func printLoadResult(cmd *cobra.Command, result *models.LoadResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Restored %s (%d files, %s)\n", result.Restored.FileName, result.RestoredFiles, result.Duration.Round(time.Millisecond))
	if result.Snapshot.FileName != "" {
		fmt.Fprintf(out, "Previous data saved as %s\n", result.Snapshot.FileName)
	}
	if result.ContainerRestarted {
		fmt.Fprintln(out, "Server restarted")
	}
}

func actorLabel(e *models.HistoryEntry) string {
	switch {
	case e.Actor == "":
		return "-"
	case e.Client == "":
		return e.Actor
	default:
		return e.Actor + " (" + e.Client + ")"
	}
}
