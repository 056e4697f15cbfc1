package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rubyzoho/zohocrm.go"
	"github.com/rubyzoho/zohocrm.go/pkg/config"
	"github.com/rubyzoho/zohocrm.go/pkg/logger"
)

// clientOptions are added to every client the commands create.
var clientOptions []zohocrm.Option

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "zohocrm",
		Short: "Query CRM records from the command line",
		Long: `zohocrm reads records, users and field metadata from a CRM account.

Settings come from a YAML file or from ZOHOCRM_* environment variables:
  ZOHOCRM_AUTH_TOKEN  API auth token (required)
  ZOHOCRM_MODULES     extra modules, comma separated

Examples:
  zohocrm get Contacts 2000000017001
  zohocrm find Contacts email a@b.com
  zohocrm find Contacts accountid 2000000012345
  zohocrm list Leads --count 10`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "zohocrm.yaml", "config file path")

	connect := func(ctx context.Context, cmd *cobra.Command) (*zohocrm.Client, func(), error) {
		return newClient(ctx, cfgFile, cmd.ErrOrStderr())
	}
	root.AddCommand(
		newFindCmd(connect),
		newGetCmd(connect),
		newListCmd(connect),
		newUsersCmd(connect),
		newFieldsCmd(connect),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type connectFunc func(ctx context.Context, cmd *cobra.Command) (*zohocrm.Client, func(), error)

func newClient(ctx context.Context, cfgFile string, logOut io.Writer) (*zohocrm.Client, func(), error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	build := logger.New().WithLevel(cfg.Logging.Level).WithFormat(cfg.Logging.Format)
	if cfg.Logging.Path != "" {
		build = build.FromPath(cfg.Logging.Path)
	} else {
		build = build.FromBuffer(logOut)
	}
	logData, err := build.Make()
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	closeLog := func() { _ = logData.Close() }

	opts := append([]zohocrm.Option{zohocrm.WithLogger(logData.Logger)}, clientOptions...)
	client, err := zohocrm.New(ctx, cfg, opts...)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return client, closeLog, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
