package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen for polite clearnet crawling of ordinary
// web servers.
const (
	// DefaultTimeout is set to 15 seconds. Clearnet servers that take
	// longer than that to answer a simple GET are better treated as
	// fetch errors so the crawl can move on to the next queue entry.
	DefaultTimeout = 15 * time.Second

	// DefaultCrawlDelay is the pause between queue items. 500ms keeps
	// the request rate around two pages per second, which is gentle
	// enough for small sites while still feeling interactive.
	// Can be adjusted via the --delay CLI flag.
	DefaultCrawlDelay = 500 * time.Millisecond

	// DefaultStreamDelay is the pause between emitted text lines.
	// The streamer paces output so page text scrolls readably instead
	// of dumping all at once. Set to 0 to disable pacing entirely.
	DefaultStreamDelay = 5 * time.Millisecond

	// DefaultUserAgent identifies webdrift in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify crawler traffic in their logs.
	DefaultUserAgent = "webdrift/1.2 (+https://github.com/fumist/webdrift)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory exhaustion
	// from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "webdrift"
)

// Config holds all configuration options for webdrift.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Seed is the starting URL for the crawl. A bare hostname is
	// accepted; the CLI prefixes "http://" when no scheme is present.
	Seed string

	// CheckManifest enables the llms.txt probe before the crawl loop.
	// When the probe finds a usable manifest the crawl never starts.
	CheckManifest bool

	// Timeout is the per-request timeout for each HTTP fetch.
	// This applies to individual requests, not the overall crawl duration.
	Timeout time.Duration

	// CrawlDelay is the pause between queue items during crawling.
	// This is a "politeness" setting to avoid overwhelming servers.
	// Lower values may cause rate limiting or service disruption.
	CrawlDelay time.Duration

	// StreamDelay is the pause between emitted text lines.
	// Set to 0 to print page text without pacing.
	StreamDelay time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps operators identify crawler traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JournalDir is the directory path for storing the SQLite journal.
	// When set, fetch outcomes are saved for later inspection.
	// Defaults to the XDG data directory (~/.local/share/webdrift on Linux).
	JournalDir string

	// SaveJournal indicates whether fetch outcomes are persisted.
	// Disabled via the --no-journal CLI flag.
	SaveJournal bool

	// ReportFile is the output file path for the session summary.
	// When set, the summary is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// JSONReport enables JSON summary output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown summary output instead of human-readable
	// format. When true, outputs GitHub Flavored Markdown with tables and a
	// pie chart of fetch outcomes. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .webdrift in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	// This is populated by LoadConfigFile and consulted per host before fetching.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, delays).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		CrawlDelay:  DefaultCrawlDelay,
		StreamDelay: DefaultStreamDelay,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		SaveJournal: true,
	}
}

// XDGDataDir returns the XDG data directory for webdrift.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/webdrift
// On macOS: ~/Library/Application Support/webdrift
// On Windows: %LOCALAPPDATA%\webdrift
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for webdrift.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/webdrift
// On macOS: ~/Library/Application Support/webdrift
// On Windows: %APPDATA%\webdrift
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before the crawl begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have a seed URL to start from
	if c.Seed == "" {
		return ErrNoSeed
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// CrawlDelay must be non-negative
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	// StreamDelay must be non-negative
	if c.StreamDelay < 0 {
		return ErrInvalidStreamDelay
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
