package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadscout/internal/config"
	"github.com/kailas-cloud/leadscout/internal/domain/search/mode"
	logpkg "github.com/kailas-cloud/leadscout/internal/logger"
	"github.com/kailas-cloud/leadscout/internal/version"
	leadscout "github.com/kailas-cloud/leadscout/pkg/sdk"
)

type rootOptions struct {
	env        string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "leadscout",
		Short: "Find Instagram leads for a profession or niche",
		Long: `leadscout asks a web-grounded language model for public Instagram
profiles matching a profession, merges the answers of several query
variations and prints ready-to-use lead cards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "Environment (local, dev, prod); selects config/<env>.yaml")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a config file (overrides --env lookup)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	cmd.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newTUICmd(opts),
		newSuggestionsCmd(),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load(o.env)
}

func (o *rootOptions) level(cfg *config.Config) string {
	if o.logLevel != "" {
		return o.logLevel
	}
	return cfg.Logging.Level
}

// newCLIClient builds an SDK client for the interactive commands.
func (o *rootOptions) newCLIClient(ctx context.Context) (*leadscout.Client, *zap.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logpkg.NewLogger("cli", o.logLevel)
	if err != nil {
		return nil, nil, err
	}
	client, err := leadscout.New(ctx, clientOptions(&cfg, logger)...)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}

func clientOptions(cfg *config.Config, logger *zap.Logger) []leadscout.Option {
	opts := []leadscout.Option{
		leadscout.WithModel(cfg.Generator.Model),
		leadscout.WithBatchSize(cfg.Search.BatchSize),
		leadscout.WithRegion(cfg.Search.Country, cfg.Search.Region, cfg.Search.Language, cfg.Search.PhonePrefix),
		leadscout.WithMaxConcurrency(cfg.Search.MaxConcurrency),
		leadscout.WithBatchTimeout(cfg.BatchTimeout()),
		leadscout.WithContactFallback(cfg.Cards.FallbackWhatsapp, cfg.Cards.Greeting),
		leadscout.WithLogger(logger),
	}

	switch cfg.Generator.Provider {
	case config.ProviderOpenAI:
		opts = append(opts, leadscout.WithOpenAI(cfg.Generator.APIKey, cfg.Generator.BaseURL))
	case config.ProviderOllama:
		opts = append(opts, leadscout.WithOllama(cfg.Generator.BaseURL))
	default:
		opts = append(opts, leadscout.WithGemini(cfg.Generator.APIKey), leadscout.WithBaseURL(cfg.Generator.BaseURL))
	}

	if t := cfg.Generator.Temperature; t != nil {
		opts = append(opts, leadscout.WithTemperature(*t))
	}
	if s := cfg.Generator.SearchEnabled; s != nil {
		opts = append(opts, leadscout.WithSearchGrounding(*s))
	}
	if b := cfg.Generator.Budget; b.Action == "reject" && (b.DailyTokenLimit > 0 || b.MonthlyTokenLimit > 0) {
		opts = append(opts, leadscout.WithTokenBudget(b.DailyTokenLimit, b.MonthlyTokenLimit))
	}
	if cfg.Mode() == mode.Extended {
		opts = append(opts, leadscout.WithExtendedMode())
	}
	return opts
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
