// ABOUTME: Centralized configuration defaults for inosync
// ABOUTME: Contains provider constants, HTTP settings, and display values

package config

import "time"

// Provider settings
const (
	DefaultHost      = "www.inoreader.com"
	DefaultItemCount = 200
	DefaultTemplate  = "default"
	DefaultConverter = "native"
)

// HTTP settings
const (
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultRequestInterval = 500 * time.Millisecond
	DefaultMaxRetries      = 3
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultAccept          = "application/atom+xml,application/rss+xml,application/xml,text/xml,text/html,*/*"
)

// Activity log settings
const (
	MaxLogEntries   = 100
	DefaultLogLimit = 20
)

// Display settings
const (
	SeparatorWidth  = 60
	DateFormatShort = "02 Jan 06 15:04 MST"
	DateFormatLong  = "Mon, 02 Jan 2006 15:04 MST"
	DefaultDirPerms = 0755
)
