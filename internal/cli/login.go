package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func loginCmd(opts *rootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := opts.client().Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Token expires %s\n\n", result.ExpirationTime.Format(time.RFC3339))
			fmt.Fprintf(out, "export %s=%s\n", envToken, result.Token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin user")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
