package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Simplici0/estatecalc/internal/config"
)

type cli struct {
	configFile string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:          "estate",
		Short:        "Real-estate investment pro-forma calculator",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&c.configFile, "config", "", "Optional config file (yaml, json or toml)")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log solver progress to stderr")

	cmd.AddCommand(c.newAnalyzeCmd())
	cmd.AddCommand(c.newScenariosCmd())
	cmd.AddCommand(c.newMigrateCmd())

	return cmd
}

func (c *cli) config() (config.Config, error) {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c *cli) logger(cmd *cobra.Command, cfg config.Config) zerolog.Logger {
	if !c.verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(cfg.Level()).
		With().Timestamp().Logger()
}
