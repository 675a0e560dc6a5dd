package vastcap

import (
	"log/slog"
	"net/http"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Version is the SDK version reported in the default User-Agent.
const Version = "1.0.0"

const (
	// DefaultTimeout bounds a whole Solve call.
	DefaultTimeout = 120 * time.Second
	// DefaultPolling is the wait between two getTaskResult calls.
	DefaultPolling = 3 * time.Second

	defaultMaxConcurrent = 8
)

// Config holds all configuration for Client and AsyncClient.
type Config struct {
	// APIKey is the VastCap client key sent as clientKey on every call.
	APIKey string

	// BaseURL overrides the solver API root. Default: DefaultBaseURL.
	BaseURL string

	// Timeout is the default Solve timeout. It also caps each HTTP request.
	Timeout time.Duration

	// Polling is the default interval between result checks in Solve.
	Polling time.Duration

	// HTTPClient is used for the plain transport. A fresh client is built when nil.
	// AsyncClient treats it as the session and closes its idle connections on Close.
	HTTPClient *http.Client

	// Stealth switches the transport to a TLS-fingerprinted browser client.
	Stealth bool

	// Profile is the browser profile for the stealth transport.
	// Default: the first stealth.BuiltinProfiles entry.
	Profile *stealth.BrowserProfile

	// Proxy routes API traffic (not the solving itself) through a proxy URL.
	Proxy string

	// BalanceWarnLevel logs a warning when GetBalance reports less than this.
	// Zero disables the warning.
	BalanceWarnLevel float64

	// MaxConcurrent bounds AsyncClient.SolveAll. Default: 8.
	MaxConcurrent int

	// Logger receives SDK logs. Default: slog.Default().
	Logger *slog.Logger
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *Config) defaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Polling <= 0 {
		cfg.Polling = DefaultPolling
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

// SolveOption overrides a Solve default for a single call.
type SolveOption func(*solveOptions)

type solveOptions struct {
	timeout time.Duration
	polling time.Duration
}

// WithTimeout overrides the Solve timeout. Non-positive values keep the client default.
func WithTimeout(d time.Duration) SolveOption {
	return func(o *solveOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithPolling overrides the polling interval. Non-positive values keep the client default.
func WithPolling(d time.Duration) SolveOption {
	return func(o *solveOptions) {
		if d > 0 {
			o.polling = d
		}
	}
}

func (cfg *Config) solveOptions(opts []SolveOption) solveOptions {
	o := solveOptions{timeout: cfg.Timeout, polling: cfg.Polling}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
