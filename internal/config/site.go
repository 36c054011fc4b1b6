package config

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing fetch behavior per site, for example to
// pass a session cookie to a site that hides content from anonymous
// visitors.
type SiteConfig struct {
	// UserAgent overrides the global User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Cookie is an HTTP cookie to send when fetching from this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .webdrift configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the bare hostname without the scheme (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all hosts
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific hostname.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}

// RequestHeaders flattens a site configuration into the extra header
// set passed to the fetcher. The cookie, if any, becomes a Cookie
// header; an explicit Headers entry named Cookie wins.
func (sc SiteConfig) RequestHeaders() map[string]string {
	if sc.Cookie == "" && len(sc.Headers) == 0 {
		return nil
	}

	headers := make(map[string]string, len(sc.Headers)+1)
	if sc.Cookie != "" {
		headers["Cookie"] = sc.Cookie
	}
	for k, v := range sc.Headers {
		headers[k] = v
	}
	return headers
}
