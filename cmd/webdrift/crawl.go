package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fumist/webdrift/internal/config"
	"github.com/fumist/webdrift/internal/crawler"
	"github.com/fumist/webdrift/internal/database"
	"github.com/fumist/webdrift/internal/fetch"
	"github.com/fumist/webdrift/internal/log"
	"github.com/fumist/webdrift/internal/model"
	"github.com/fumist/webdrift/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl a site breadth-first, streaming page text",
		Long: `Crawl starts from a seed URL and walks the site's link graph
breadth-first. Each fetched page is streamed to the terminal line by
line with style blocks removed, then its links are queued for later.

The crawl keeps no history of visited pages. On sites whose pages link
back to each other the crawl runs until you press Ctrl-C; that is the
expected way to end a session.

Examples:
  # Crawl a site
  webdrift crawl example.com

  # Check for an llms.txt manifest before crawling
  webdrift crawl --llms example.com

  # Slow down the request rate
  webdrift crawl --delay 2s example.com

  # Write a Markdown session summary to a file
  webdrift crawl --markdown -o summary.md example.com

Configuration file (.webdrift) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
    internal.example.org:
      userAgent: "webdrift-internal/1.0"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().BoolP("llms", "l", false,
		"Probe for an llms.txt manifest before crawling; a hit replaces the crawl")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Pause between queue items")
	cmd.Flags().Duration("stream-delay", config.DefaultStreamDelay,
		"Pause between emitted text lines (0 disables pacing)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for HTTP requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webdrift in current or home directory)")

	// Journal flags
	cmd.Flags().Bool("no-journal", false,
		"Disable the SQLite fetch journal")
	cmd.Flags().String("journal-dir", "",
		"Journal directory (default: XDG data directory)")

	// Summary flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON session summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown session summary (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the session summary to the specified file path")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Interactive mode: no seed on the command line.
	if cfg.Seed == "" {
		printBanner(cmd.OutOrStdout())
		cfg.Seed = normalizeSeed(promptSeed(cmd.InOrStdin(), cmd.OutOrStdout()))
		if cfg.Seed == "" {
			return config.ErrNoSeed
		}
		if !cmd.Flags().Changed("llms") {
			cfg.CheckManifest = promptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(),
				"Check for an llms.txt manifest first?")
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Debug("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.CheckManifest, err = cmd.Flags().GetBool("llms")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.StreamDelay, err = cmd.Flags().GetDuration("stream-delay")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	noJournal, err := cmd.Flags().GetBool("no-journal")
	if err != nil {
		return nil, err
	}
	cfg.SaveJournal = !noJournal

	cfg.JournalDir, err = cmd.Flags().GetString("journal-dir")
	if err != nil {
		return nil, err
	}
	if cfg.JournalDir == "" {
		cfg.JournalDir = config.XDGDataDir()
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.Seed = normalizeSeed(args[0])
	}

	return cfg, nil
}

// runCrawl wires the collaborators and runs the crawl loop.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	logger.Debug("starting crawl",
		"seed", cfg.Seed,
		"checkManifest", cfg.CheckManifest,
		"delay", cfg.CrawlDelay,
		"saveJournal", cfg.SaveJournal,
	)

	// Open the fetch journal if enabled
	var journal crawler.Journal
	if cfg.SaveJournal {
		db, err := database.Open(cfg.JournalDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() { _ = db.Close() }()
		logger.Debug("journal opened", "dir", cfg.JournalDir)
		journal = db
	}

	fetcher := newFetcher(cfg)
	streamer := crawler.NewStreamer(out, crawler.WithLineDelay(cfg.StreamDelay))
	prober := crawler.NewManifestProber(fetcher, out, crawler.WithProberLogger(logger))

	spiderOpts := []crawler.SpiderOption{
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithErrorOutput(errOut),
		crawler.WithLogger(logger),
		crawler.WithManifestCheck(cfg.CheckManifest),
	}
	if journal != nil {
		spiderOpts = append(spiderOpts, crawler.WithJournal(journal))
	}
	spider := crawler.NewSpider(fetcher, streamer, prober, out, spiderOpts...)

	summary, err := spider.Run(ctx, cfg.Seed)

	// Interruption is the normal way a session on a cyclic site ends;
	// report the summary and exit cleanly.
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if outErr := outputSummary(cfg, summary); outErr != nil {
		logger.Error("summary output failed", "error", outErr)
		return outErr
	}

	return nil
}

// newFetcher builds the HTTP fetcher with per-site configuration for
// the seed's host applied.
func newFetcher(cfg *config.Config) *fetch.Fetcher {
	client := &http.Client{Timeout: cfg.Timeout}

	userAgent := cfg.UserAgent
	var headers map[string]string

	if cfg.SiteConfigs != nil {
		if u, err := url.Parse(cfg.Seed); err == nil && u.Hostname() != "" {
			site := cfg.SiteConfigs.GetSiteConfig(u.Hostname())
			if site.UserAgent != "" {
				userAgent = site.UserAgent
			}
			headers = site.RequestHeaders()
		}
	}

	opts := []fetch.Option{
		fetch.WithUserAgent(userAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	}
	if len(headers) > 0 {
		opts = append(opts, fetch.WithHeaders(headers))
	}

	return fetch.NewFetcher(client, opts...)
}

// outputSummary writes the session summary in the requested format.
func outputSummary(cfg *config.Config, summary *model.CrawlSummary) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(summary)
	return err
}
