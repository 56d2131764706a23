package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/leadscout/internal/domain/search/suggestion"
	"github.com/kailas-cloud/leadscout/internal/transport/console"
	"github.com/kailas-cloud/leadscout/internal/transport/tui"
	leadscout "github.com/kailas-cloud/leadscout/pkg/sdk"
)

type searchOptions struct {
	filters leadscout.Filters
	json    bool
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search Instagram leads and print them",
		Example: `  leadscout search "Tatuador em São Paulo"
  leadscout search Dentista --min-followers 1000 --bio orçamento --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, logger, err := root.newCLIClient(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			p := console.NewPrinter(cmd.OutOrStdout())
			return runSearch(cmd.Context(), client, p, cmd.ErrOrStderr(), strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.filters.MinFollowers, "min-followers", "", "Minimum follower count hint")
	cmd.Flags().StringVar(&opts.filters.MaxFollowers, "max-followers", "", "Maximum follower count hint")
	cmd.Flags().StringVar(&opts.filters.BioKeyword, "bio", "", "Keyword the bio should contain")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	return cmd
}

type searcher interface {
	Search(ctx context.Context, keyword string, filters leadscout.Filters) (leadscout.Result, error)
}

// errReported marks an error the printer already showed to the user.
var errReported = errors.New("search failed")

func runSearch(ctx context.Context, s searcher, p *console.Printer, progress io.Writer, keyword string, opts *searchOptions) error {
	var stop func()
	if !opts.json {
		stop = console.Spinner(progress, "Buscando perfis...")
	}
	res, err := s.Search(ctx, keyword, opts.filters)
	if stop != nil {
		stop()
	}
	if err != nil {
		p.Error(err)
		return errReported
	}

	if opts.json {
		return p.JSON(&res)
	}
	p.Results(&res)
	return nil
}

func newTUICmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive search screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, logger, err := root.newCLIClient(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return tui.Run(cmd.Context(), client, client.Suggestions())
		},
	}
}

func newSuggestionsCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "Print example searches",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			console.NewPrinter(cmd.OutOrStdout()).Suggestions(suggestion.List(n))
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 3, "How many suggestions to print")
	return cmd
}
