package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/deg0at/cfaxdlr/internal/batch"
	"github.com/deg0at/cfaxdlr/internal/carfax"
	"github.com/deg0at/cfaxdlr/internal/config"
	"github.com/deg0at/cfaxdlr/internal/fetcher"
	"github.com/deg0at/cfaxdlr/internal/logging"
	"github.com/deg0at/cfaxdlr/internal/pacing"
	"github.com/deg0at/cfaxdlr/internal/processor"
	"github.com/deg0at/cfaxdlr/internal/progress"
	"github.com/deg0at/cfaxdlr/internal/resolver"
)

type runOptions struct {
	input       string
	urlColumn   string
	idColumn    string
	download    bool
	outPath     string
	archivePath string
	resultsPath string
}

// newRunCmd creates the 'run' subcommand, which processes one CSV batch.
func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a listings CSV and write the run artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "path to the listings CSV (required)")
	cmd.Flags().StringVar(&opts.urlColumn, "url-column", "", "header of the column holding the eBrochure URL (required)")
	cmd.Flags().StringVar(&opts.idColumn, "id-column", "", "header of the column holding the VIN (required)")
	cmd.Flags().BoolVar(&opts.download, "download", true, "download the resolved reports into a zip archive")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "listings_with_carfax.csv", "path for the enriched CSV")
	cmd.Flags().StringVar(&opts.archivePath, "archive", "carfax_reports.zip", "path for the report archive")
	cmd.Flags().StringVar(&opts.resultsPath, "results", "results.csv", "path for the per-record result log")

	for _, flag := range []string{"input", "url-column", "id-column"} {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
	return cmd
}

func runBatch(cmd *cobra.Command, opts runOptions) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	in, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	table, err := batch.ReadTable(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	agg, err := buildAggregator(cfg, logger)
	if err != nil {
		return err
	}

	out, err := agg.Run(cmd.Context(), table, opts.urlColumn, opts.idColumn, opts.download)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}
	for _, warning := range out.Warnings {
		logger.Warn(warning)
	}

	return writeArtifacts(out, opts, logger)
}

// buildAggregator wires the pipeline: one shared transport and header set
// across the resolver client and the document fetcher, one pacer for the run.
func buildAggregator(cfg config.Config, logger *zap.Logger) (*batch.Aggregator, error) {
	headers := carfax.DefaultHeaders(cfg.HTTP.UserAgent, cfg.HTTP.Referer)
	transport := resolver.NewTransport()
	pacer := pacing.New(cfg.Batch.PacingDelay())

	client := resolver.NewClient(resolver.Config{
		Headers:     headers,
		Timeout:     cfg.HTTP.Timeout(),
		MaxAttempts: cfg.Resolver.MaxAttempts,
		Backoff:     cfg.Resolver.Backoff(),
	}, transport, pacer, logger)

	strategy, err := resolver.ForStrategy(client, resolver.StrategyConfig{
		Name:         cfg.Resolver.Strategy,
		LinkSelector: cfg.Resolver.LinkSelector,
		APIBaseURL:   cfg.Resolver.APIBaseURL,
		TokenParam:   cfg.Resolver.TokenParam,
	})
	if err != nil {
		return nil, fmt.Errorf("init resolver: %w", err)
	}

	documents := fetcher.New(transport, headers, cfg.HTTP.Timeout(), logger)
	proc := processor.New(strategy, documents, logger)

	return batch.New(proc, progress.NewLogEmitter(logger), batch.Config{
		Concurrency: cfg.Batch.Concurrency,
		URLColumn:   cfg.Batch.URLColumn,
	}, logger), nil
}

func writeArtifacts(out *batch.Output, opts runOptions, logger *zap.Logger) error {
	enriched, err := os.Create(opts.outPath)
	if err != nil {
		return fmt.Errorf("create enriched csv: %w", err)
	}
	if err := out.Enriched.WriteCSV(enriched); err != nil {
		enriched.Close()
		return fmt.Errorf("write enriched csv: %w", err)
	}
	if err := enriched.Close(); err != nil {
		return fmt.Errorf("close enriched csv: %w", err)
	}

	results, err := os.Create(opts.resultsPath)
	if err != nil {
		return fmt.Errorf("create results csv: %w", err)
	}
	if err := batch.WriteResults(results, out.Results); err != nil {
		results.Close()
		return fmt.Errorf("write results csv: %w", err)
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close results csv: %w", err)
	}

	if out.Archive != nil {
		if err := os.WriteFile(opts.archivePath, out.Archive, 0o644); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}
	}

	logger.Info("artifacts written",
		zap.String("enriched", opts.outPath),
		zap.String("results", opts.resultsPath),
		zap.String("archive", opts.archivePath),
		zap.Int("archived_reports", out.ArchiveCount),
	)
	return nil
}
