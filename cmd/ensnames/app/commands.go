// Package app provides the commands of the ensnames CLI.
package app

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"ens-name-tracker/internal/config"
	"ens-name-tracker/internal/ens"
	"ens-name-tracker/internal/ethrpc"
)

// deps are the collaborators a command reaches outside the process for.
type deps struct {
	openRegistry func(ctx context.Context, conf *config.Config) (ens.Registry, io.Closer, error)
	now          func() time.Time
}

func defaultDeps() deps {
	return deps{
		openRegistry: dialRegistry,
		now:          time.Now,
	}
}

// NewRootCmd creates the ensnames root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultDeps())
}

func newRootCmd(d deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ensnames",
		Short:        "Track availability, expiry and price of .eth names",
		SilenceUsage: true,
		Long: `ensnames keeps a local set of .eth names in step with the ENS registrar.
It adds candidate names, refreshes names close to expiry, seeds an empty
store from generated candidates and reports on what it has found.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			_ = cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.String("metrics-addr", "", "Serve /metrics and /health on this address during a run")
	flags.String("store", config.DriverFile, "Record store driver (file, postgres, memory)")
	flags.String("store-path", "db.json", "Record document path for the file driver; .zst compresses it")
	flags.String("rpc-url", "", "Ethereum JSON-RPC endpoint (http, https, ws or wss)")

	rootCmd.AddCommand(newAddCmd(d))
	rootCmd.AddCommand(newRefreshCmd(d))
	rootCmd.AddCommand(newReportCmd(d))
	rootCmd.AddCommand(newSeedCmd(d))

	return rootCmd
}

// dialRegistry connects to the configured endpoint and binds the registrar contracts.
func dialRegistry(ctx context.Context, conf *config.Config) (ens.Registry, io.Closer, error) {
	if err := conf.RequireRPC(); err != nil {
		return nil, nil, err
	}

	client, err := ethrpc.Dial(ctx, conf.RPC.URL,
		ethrpc.WithTimeout(conf.RPC.Timeout),
		ethrpc.WithMaxRetries(conf.RPC.MaxRetries),
	)
	if err != nil {
		return nil, nil, err
	}

	registry := ens.NewContractRegistry(client, ens.ContractRegistryOptions{
		Controller:    conf.RPC.Controller,
		BaseRegistrar: conf.RPC.BaseRegistrar,
	})
	return registry, client, nil
}
