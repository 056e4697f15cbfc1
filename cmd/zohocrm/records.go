package main

import (
	"github.com/spf13/cobra"

	"github.com/rubyzoho/zohocrm.go/pkg/constants"
)

func newFindCmd(connect connectFunc) *cobra.Command {
	var condition string

	cmd := &cobra.Command{
		Use:   "find <module> <field> <value>",
		Short: "Find records by identifier, related identifier or any field",
		Long: `Find records of a module.

The field decides the lookup: "id" or the module's own identifier fetches
one record, another module's identifier uses the related-record search, and
any other field is searched with --condition.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := connect(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			recs, err := client.FindRecords(cmd.Context(), args[0], args[1], condition, args[2])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().StringVar(&condition, "condition", "=", "comparison for field searches")
	return cmd
}

func newGetCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "get <module> <id>",
		Short: "Fetch one record by identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := connect(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			recs, err := client.FindRecordByID(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), recs)
		},
	}
}

func newListCmd(connect connectFunc) *cobra.Command {
	var (
		from  int
		count int
		view  string
	)

	cmd := &cobra.Command{
		Use:   "list <module>",
		Short: "List records of a module, optionally from a custom view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, done, err := connect(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer done()

			if view != "" {
				if count <= 0 {
					count = constants.RecordsPerPage
				}
				recs, err := client.RecordsFromCustomView(cmd.Context(), args[0], view, from, from+count-1)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), recs)
			}

			recs, err := client.Some(cmd.Context(), args[0], from, count)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), recs)
		},
	}
	cmd.Flags().IntVar(&from, "from", 1, "1-based index of the first record")
	cmd.Flags().IntVar(&count, "count", 0, "number of records, 0 for a full page")
	cmd.Flags().StringVar(&view, "view", "", "custom view name")
	return cmd
}
