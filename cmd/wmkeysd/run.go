package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/wmkeys/internal/app"
	"github.com/dshills/wmkeys/internal/backend/x11"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var display string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Connect to the display and dispatch keybindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			logger, err := flags.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			conn, err := x11.Connect(display, logger)
			if err != nil {
				return err
			}
			defer conn.Shutdown()

			daemon, err := app.New(app.Options{
				Backend:    conn,
				Config:     cfg,
				ConfigPath: flags.configPath,
				Logger:     logger,
			})
			if err != nil {
				return err
			}
			defer daemon.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			hup := make(chan os.Signal, 1)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)
			go func() {
				for {
					select {
					case <-hup:
						daemon.RequestReload()
					case <-ctx.Done():
						return
					}
				}
			}()

			return daemon.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&display, "display", "", "X display to connect to (default $DISPLAY)")
	return cmd
}
