package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sessionkit/internal/demo"
	"github.com/dmitrymomot/sessionkit/pkg/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "sessionkit",
		Short: "Stateless JWT cookie sessions",
		Long: `sessionkit runs a demo server built on JWT cookie sessions and
offers helpers to generate session secrets and inspect session cookies.

Configuration is read from the environment and can be overridden by a
YAML file passed with --config.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML file overlaid on the environment")
	root.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, ".env files to load before reading the environment")

	root.AddCommand(
		newServeCmd(flags),
		newKeygenCmd(),
		newInspectCmd(flags),
	)
	return root
}

func loadConfig(flags *globalFlags) (demo.Config, error) {
	var cfg demo.Config
	if len(flags.envFiles) > 0 {
		if err := config.LoadEnv(flags.envFiles...); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadFile(&cfg, flags.configPath); err != nil {
		return cfg, err
	}
	return cfg, nil
}
