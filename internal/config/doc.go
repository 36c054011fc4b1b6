// Package config provides configuration structures and utilities for webdrift.
// It defines the main configuration options for crawling, per-site request
// customization, and summary output preferences.
package config
