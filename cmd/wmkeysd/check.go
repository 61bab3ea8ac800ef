package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/wmkeys/internal/app"
	"github.com/dshills/wmkeys/internal/backend"
)

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and print resolved bindings",
		Long: "check loads the configuration and resolves every binding against the US " +
			"fallback layout and the stock modifier map, without connecting to a display.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			logger := zerolog.Nop()
			if flags.logLevel != "" {
				if logger, err = flags.logger(cfg, cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			null := backend.NewNullBackend()
			defer null.Shutdown()

			daemon, err := app.New(app.Options{
				Backend: null,
				Config:  cfg,
				Logger:  logger,
				Spawner: func([]string) error { return nil },
			})
			if err != nil {
				return err
			}
			defer daemon.Close()

			if err := daemon.WriteBindings(cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d bindings, %d key grabs\n",
				len(daemon.Engine().Bindings()), len(null.Keys))
			return nil
		},
	}
}
