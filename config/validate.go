// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errNoCruiseLines                = errors.New("at least one cruise line must be configured in Upstream.Lines")
	errInvalidCruiseLine            = errors.New(`cruise line entries must have the form "id:name:path"`)
	errDuplicateCruiseLine          = errors.New("duplicate cruise line id")
	errInvalidRequestTimeout        = errors.New("Request.Timeout must be positive")
	errInvalidCacheSize             = errors.New("Cache.Size must be positive when the cache is enabled")
	errInvalidCacheTTL              = errors.New("Cache.TTL must not be negative")
	errInvalidLimiterRate           = errors.New("Limiter.Rate must be positive")
	errInvalidLimiterBurst          = errors.New("Limiter.Burst must be positive")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
)

const cruiseLineParts = 3

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
	lineIDRegexp         = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// validateAndSet validates the server configuration and populates some fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	baseURL, err := utils.ParseURL(cfg.Upstream.RawBaseURL, "Upstream")
	if err != nil {
		return fmt.Errorf("invalid upstream URL: %w", err)
	}

	cfg.Upstream.BaseURL = *baseURL

	lines, err := ParseCruiseLines(cfg.Upstream.RawLines)
	if err != nil {
		return err
	}

	cfg.Upstream.Lines = lines

	if cfg.Request.Timeout <= 0 {
		return errInvalidRequestTimeout
	}

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	if cfg.Cache.TTL < 0 {
		return errInvalidCacheTTL
	}

	// echarts asset URLs are built by plain concatenation.
	if cfg.Chart.AssetsHost != "" && !strings.HasSuffix(cfg.Chart.AssetsHost, "/") {
		cfg.Chart.AssetsHost += "/"
	}

	// A path-only host serves the ECharts scripts from this instance.
	if cfg.Chart.AssetsHost != "" && !strings.HasPrefix(cfg.Chart.AssetsHost, "/") {
		if _, err := utils.ParseURL(cfg.Chart.AssetsHost, "Chart assets host"); err != nil {
			return fmt.Errorf("invalid chart assets host: %w", err)
		}
	}

	repoURL, err := utils.ParseURL(cfg.Instance.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Instance.RepoURL = repoURL.String()

	// Skip validating Limiter configuration if it's not enabled
	if !cfg.Limiter.Enabled {
		return nil
	}

	if cfg.Limiter.Rate <= 0 {
		return errInvalidLimiterRate
	}

	if cfg.Limiter.Burst <= 0 {
		return errInvalidLimiterBurst
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8282"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		return errUnixSocketWithHostPort
	}

	switch {
	case cfg.Basic.RawUnixSocketPermissions == "":
		cfg.Basic.UnixSocketPermissions = 0o666
	case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		rawModeUint64, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)

		cfg.Basic.UnixSocketPermissions = os.FileMode(rawModeUint64)
	case fileModeStringRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		mode := os.FileMode(0)

		for i, c := range cfg.Basic.RawUnixSocketPermissions {
			// If permission bit is set
			if c != '-' {
				// Set i-th bit from the end
				const bitsInByte = 8

				mode |= 1 << (bitsInByte - i)
			}
		}

		cfg.Basic.UnixSocketPermissions = mode
	default:
		return errUnixSocketInvalidPermissions
	}

	if cfg.Basic.UnixSocketUser != "" {
		if digitsRegexp.MatchString(cfg.Basic.UnixSocketUser) {
			if _, err := user.LookupId(cfg.Basic.UnixSocketUser); err != nil {
				return errUnixSocketUserDoesNotExist
			}
		} else if _, err := user.Lookup(cfg.Basic.UnixSocketUser); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if cfg.Basic.UnixSocketGroup != "" {
		if digitsRegexp.MatchString(cfg.Basic.UnixSocketGroup) {
			if _, err := user.LookupGroupId(cfg.Basic.UnixSocketGroup); err != nil {
				return errUnixSocketGroupDoesNotExist
			}
		} else if _, err := user.LookupGroup(cfg.Basic.UnixSocketGroup); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

// ParseCruiseLines parses "id:name:path" entries.
//
// The path may itself contain colons, so an absolute upstream URL
// like "po:P&O:https://host/cruises/po" is accepted.
func ParseCruiseLines(raw []string) ([]CruiseLine, error) {
	if len(raw) == 0 {
		return nil, errNoCruiseLines
	}

	lines := make([]CruiseLine, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, entry := range raw {
		parts := strings.SplitN(entry, ":", cruiseLineParts)
		if len(parts) != cruiseLineParts {
			return nil, fmt.Errorf("%w: %q", errInvalidCruiseLine, entry)
		}

		line := CruiseLine{
			ID:   strings.ToLower(strings.TrimSpace(parts[0])),
			Name: strings.TrimSpace(parts[1]),
			Path: strings.TrimSpace(parts[2]),
		}

		if !lineIDRegexp.MatchString(line.ID) || line.Name == "" || line.Path == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidCruiseLine, entry)
		}

		if _, ok := seen[line.ID]; ok {
			return nil, fmt.Errorf("%w: %q", errDuplicateCruiseLine, line.ID)
		}

		seen[line.ID] = struct{}{}

		lines = append(lines, line)
	}

	return lines, nil
}
