package main

import (
	"github.com/spf13/cobra"
)

func newUsersCmd(connect connectFunc) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the account's users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := connect(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			fetch := client.Users
			if refresh {
				fetch = client.RefreshUsers
			}
			users, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), users)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the list again")
	return cmd
}

func newFieldsCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <module>",
		Short: "Show the field metadata of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := connect(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			fields, err := client.ModuleFields(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), fields)
		},
	}
}
