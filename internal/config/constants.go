package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 90 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 5 * time.Minute

// Upload limits. The invoice submission carries one PDF attachment;
// everything else is small JSON.
const (
	MaxUploadBytes  = 16 << 20 // 16 MiB
	DefaultBodySize = 1 << 20  // 1 MiB
)

// Login policy
const (
	LoginMaxAttempts = 5
	LockoutDuration  = 15 * time.Minute
	SessionTTL       = 24 * time.Hour
	LoginRateLimit   = 5 // per IP per minute
)

// Outbound payload metadata
const (
	SourceTag       = "portal_go"
	DefaultCurrency = "MXN"
)
