package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fumist/webdrift/internal/config"
	"github.com/fumist/webdrift/internal/crawler"
	"github.com/fumist/webdrift/internal/fetch"
	"github.com/fumist/webdrift/internal/log"
)

// NewProbeCmd creates the probe command.
func NewProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <url>",
		Short: "Check a site for an llms.txt manifest",
		Long: `Probe fetches <url>/llms.txt and prints the manifest when the site
publishes one in a usable text format. No crawl is performed.

The command exits non-zero when no usable manifest is found, so it can
be used in scripts:

  webdrift probe example.com && echo "manifest available"`,
		Args: cobra.ExactArgs(1),
		RunE: runProbeCmd,
	}

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for the HTTP request")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for the HTTP request")

	return cmd
}

// runProbeCmd executes the probe command.
func runProbeCmd(cmd *cobra.Command, args []string) error {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	userAgent, err := cmd.Flags().GetString("user-agent")
	if err != nil {
		return err
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))

	fetcher := fetch.NewFetcher(
		&http.Client{Timeout: timeout},
		fetch.WithUserAgent(userAgent),
	)
	prober := crawler.NewManifestProber(fetcher, cmd.OutOrStdout(),
		crawler.WithProberLogger(logger))

	seed := normalizeSeed(args[0])
	if !prober.Probe(cmd.Context(), seed) {
		return fmt.Errorf("no usable %s manifest at %s", crawler.ManifestName, seed)
	}
	return nil
}
