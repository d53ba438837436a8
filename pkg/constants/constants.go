// Package constants provides shared constants used throughout the meshsync
// codebase. This includes timeouts, file permissions, and other configuration
// values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to provider APIs
	DefaultHTTPTimeout = 30 * time.Second

	// GeocodeTimeout is the timeout for reverse-geocoding lookups
	GeocodeTimeout = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// HTTP constants
const (
	// UserAgent identifies meshsync to the provider APIs
	UserAgent = "MeshSync/1.0"

	// BrowserUserAgent is sent to endpoints that reject non-browser clients
	BrowserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:147.0) Gecko/20100101 Firefox/147.0"
)
