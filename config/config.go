// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// CruiseLine is a cruise line tracked by the upstream API.
type CruiseLine struct {
	// ID is the short identifier used in dashboard URLs, e.g. "po".
	ID string `json:"id" yaml:"id"`

	// Name is the display name, e.g. "P&O Cruises".
	Name string `json:"name" yaml:"name"`

	// Path is the upstream endpoint serving the line's observations,
	// relative to Upstream.BaseURL unless it is an absolute URL.
	Path string `json:"path" yaml:"path"`
}

// BasicConfig is where the server listens.
type BasicConfig struct {
	Host                     string      `env:"CRUISETRACKER_HOST,overwrite" yaml:"host"`
	Port                     string      `env:"CRUISETRACKER_PORT,overwrite" yaml:"port"`
	UnixSocket               string      `env:"CRUISETRACKER_UNIXSOCKET" yaml:"unixSocket"`
	RawUnixSocketPermissions string      `env:"CRUISETRACKER_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
	UnixSocketPermissions    os.FileMode `yaml:"-"`
	UnixSocketUser           string      `env:"CRUISETRACKER_UNIXSOCKET_USER" yaml:"unixSocketUser"`
	UnixSocketGroup          string      `env:"CRUISETRACKER_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
}

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic BasicConfig `yaml:"basic"`

	Upstream struct {
		RawBaseURL string  `env:"CRUISETRACKER_UPSTREAM,overwrite" yaml:"baseUrl"`
		BaseURL    url.URL `yaml:"-"`
		AllPath    string  `env:"CRUISETRACKER_UPSTREAM_ALL_PATH,overwrite" yaml:"allPath"`

		// RawLines holds "id:name:path" entries.
		RawLines []string     `env:"CRUISETRACKER_LINES,overwrite" yaml:"lines"`
		Lines    []CruiseLine `yaml:"-"`
	} `yaml:"upstream"`

	Request struct {
		Timeout   time.Duration `env:"CRUISETRACKER_REQUEST_TIMEOUT,overwrite" yaml:"timeout"`
		UserAgent string        `env:"CRUISETRACKER_USER_AGENT,overwrite" yaml:"userAgent"`
	} `yaml:"request"`

	Cache struct {
		Enabled  bool          `env:"CRUISETRACKER_CACHE,overwrite" yaml:"enabled"`
		Size     int           `env:"CRUISETRACKER_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		TTL      time.Duration `env:"CRUISETRACKER_CACHE_TTL,overwrite" yaml:"cacheTTL"`
		Compress bool          `env:"CRUISETRACKER_CACHE_COMPRESS,overwrite" yaml:"compress"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"CRUISETRACKER_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"CRUISETRACKER_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Chart struct {
		AssetsHost string `env:"CRUISETRACKER_CHART_ASSETS_HOST,overwrite" yaml:"assetsHost"`
		Width      string `env:"CRUISETRACKER_CHART_WIDTH,overwrite" yaml:"width"`
		Height     string `env:"CRUISETRACKER_CHART_HEIGHT,overwrite" yaml:"height"`
	} `yaml:"chart"`

	Instance struct {
		StartingTime      time.Time `yaml:"-"`
		FileServerCacheID string    `yaml:"-"`
		RepoURL           string    `env:"CRUISETRACKER_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment        bool   `env:"CRUISETRACKER_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"CRUISETRACKER_SAVE_RESPONSES,overwrite" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"CRUISETRACKER_RESPONSE_SAVE_LOCATION,overwrite" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"CRUISETRACKER_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"CRUISETRACKER_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"CRUISETRACKER_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Limiter struct {
		Enabled    bool     `env:"CRUISETRACKER_LIMITER,overwrite" yaml:"enabled"`
		Rate       float64  `env:"CRUISETRACKER_LIMITER_RATE,overwrite" yaml:"rate"`
		Burst      int      `env:"CRUISETRACKER_LIMITER_BURST,overwrite" yaml:"burst"`
		PassIPs    []string `env:"CRUISETRACKER_LIMITER_PASS_IPS,overwrite" yaml:"passList"`
		BlockIPs   []string `env:"CRUISETRACKER_LIMITER_BLOCK_IPS,overwrite" yaml:"blockList"`
		IPv4Prefix int      `env:"CRUISETRACKER_LIMITER_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix int      `env:"CRUISETRACKER_LIMITER_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`

		// StateFilepath persists the token buckets across restarts. Empty disables persistence.
		StateFilepath string `env:"CRUISETRACKER_LIMITER_STATE_FILEPATH,overwrite" yaml:"stateFilepath"`
	} `yaml:"limiter"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	configFilePath := resolveConfigPath(flag.CommandLine)

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC()

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if isContainerized() && cfg.Basic.UnixSocket == "" && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

// UpstreamURL resolves an upstream endpoint path against Upstream.BaseURL.
// Absolute URLs are returned unchanged.
func (cfg *ServerConfig) UpstreamURL(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.IsAbs() {
		return endpoint
	}

	return cfg.Upstream.BaseURL.JoinPath(endpoint).String()
}

// LookupLine returns the configured cruise line with the given ID.
func (cfg *ServerConfig) LookupLine(id string) (CruiseLine, bool) {
	for _, line := range cfg.Upstream.Lines {
		if line.ID == id {
			return line, true
		}
	}

	return CruiseLine{}, false
}

var staticSkippedPathPrefixes = []string{"/css/", "/js/", "/robots.txt"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
