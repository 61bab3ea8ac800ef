package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/wmkeys/internal/config"
	"github.com/dshills/wmkeys/internal/logging"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	pretty     bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "wmkeysd",
		Short:         "Window manager keybinding daemon",
		Long:          "wmkeysd resolves keybindings against the keyboard layout, grabs them on the root window and dispatches them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultPath(), "path to the configuration file (.toml or .yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level, overriding the configuration (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.pretty, "pretty", false, "human readable log output")

	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newCheckCmd(flags))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig reads the configuration, falling back to defaults when the
// file does not exist.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// logger builds the root logger from the configuration and the flags.
func (f *globalFlags) logger(cfg *config.Config, out io.Writer) (zerolog.Logger, error) {
	level := cfg.Logging.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	return logging.New(logging.Config{
		Level:  level,
		Pretty: f.pretty || cfg.Logging.Pretty,
		Output: out,
	})
}
