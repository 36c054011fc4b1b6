// Package log provides logging functionality with automatic truncation
// of oversized attribute values, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic truncation of page-sized string attributes
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// Crawl diagnostics often attach URLs, response snippets, and decoded
// page text to log records. The TrimHandler caps every string attribute
// at MaxAttrLen bytes so a single debug line never floods the log
// stream, while recording the original length for context.
//
// # Usage
//
//	// Create a trimming logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("page decoded",
//	    "url", "http://example.com/",
//	    "text", pageText, // truncated to 256 bytes in the output
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
