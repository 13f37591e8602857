// Package config provides configuration types and defaults for the
// Kinetoscope streaming core, following the teacher's NewConfig/Validate
// constructor pattern (internal/config/config.go in five82/reel).
package config

import (
	"fmt"
	"time"
)

// Default constants, mirroring original_source/common/video-server.h.
const (
	// DefaultServerHost is the canned-video CDN host used by the
	// reference firmware and emulator.
	DefaultServerHost = "storage.googleapis.com"

	// DefaultServerPort is the default HTTP port (plain HTTP only, per
	// spec.md Non-goal (iii): no authenticated or encrypted transport).
	DefaultServerPort = 80

	// DefaultBasePath is the base path videos and the catalog are served
	// under.
	DefaultBasePath = "/sega-kinetoscope/canned-videos/"

	// DefaultCatalogFilename is the catalog's filename beneath BasePath.
	DefaultCatalogFilename = "catalog.bin"

	// DefaultUserAgent is the literal User-Agent sent on every request.
	DefaultUserAgent = "Kinetoscope/1.0"

	// DefaultMinReadSize is the recommended minimum per-socket-read size
	// before falling back to a backoff delay (spec.md §4.D).
	DefaultMinReadSize = 8192

	// DefaultReadBackoff is the delay between retried short/zero reads.
	DefaultReadBackoff = time.Millisecond

	// DefaultSimulatedDispatchDelay is the emulator's artificial
	// processing delay before a command dispatches (spec.md §4.F). Real
	// firmware applies no such delay; tests should not assume this bound
	// (Design Notes Open Question 3).
	DefaultSimulatedDispatchDelay = 100 * time.Millisecond

	// MaxCatalogEntries is the maximum video index the console may
	// request (spec.md §4.E step 1).
	MaxCatalogEntries = 127
)

// Console-observed timeouts, informational only — spec.md §6 states these
// are enforced by the console, not the device, but the CLI harness prints
// them for operators.
var ConsoleTimeouts = struct {
	Echo, ListVideos, StartVideo, StopVideo, ConnectNet, MarchTest time.Duration
}{
	Echo:       5 * time.Second,
	ListVideos: 30 * time.Second,
	StartVideo: 30 * time.Second,
	StopVideo:  30 * time.Second,
	ConnectNet: 40 * time.Second,
	MarchTest:  30 * time.Second,
}

// Config holds all configuration for a Kinetoscope emulator instance.
type Config struct {
	// Server identifies the canned-video CDN the device fetches from.
	ServerHost string
	ServerPort int
	BasePath   string

	// Fetch tuning.
	MinReadSize  int
	ReadBackoff  time.Duration
	PrefetchDepth int // fixed at 1 (one chunk of lookahead); kept here so it's validated and printable

	// SimulatedDispatchDelay is applied only by the emulator build, never
	// by firmware-equivalent tests (which should inject clock.Zero).
	SimulatedDispatchDelay time.Duration

	// Verbose enables debug-level logging.
	Verbose bool
}

// NewConfig creates a new Config with default values pointed at the
// reference canned-video server.
func NewConfig() *Config {
	return &Config{
		ServerHost:             DefaultServerHost,
		ServerPort:             DefaultServerPort,
		BasePath:               DefaultBasePath,
		MinReadSize:            DefaultMinReadSize,
		ReadBackoff:            DefaultReadBackoff,
		PrefetchDepth:          1,
		SimulatedDispatchDelay: DefaultSimulatedDispatchDelay,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.ServerHost == "" {
		return fmt.Errorf("server host must not be empty")
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", c.ServerPort)
	}
	if c.MinReadSize < 1 {
		return fmt.Errorf("min_read_size must be positive, got %d", c.MinReadSize)
	}
	if c.PrefetchDepth != 1 {
		return fmt.Errorf("prefetch_depth must be 1 (spec.md fixes one chunk of lookahead), got %d", c.PrefetchDepth)
	}
	if c.SimulatedDispatchDelay < 0 {
		return fmt.Errorf("simulated_dispatch_delay must be non-negative, got %s", c.SimulatedDispatchDelay)
	}
	return nil
}

// CatalogURL returns the absolute URL of the catalog file.
func (c *Config) CatalogURL() string {
	return c.baseURL() + DefaultCatalogFilename
}

// VideoURL returns the absolute URL for a video's relative path, as
// recorded in its outer header's relative_url field.
func (c *Config) VideoURL(relativePath string) string {
	return c.baseURL() + relativePath
}

func (c *Config) baseURL() string {
	if c.ServerPort == 80 {
		return fmt.Sprintf("http://%s%s", c.ServerHost, c.BasePath)
	}
	return fmt.Sprintf("http://%s:%d%s", c.ServerHost, c.ServerPort, c.BasePath)
}
