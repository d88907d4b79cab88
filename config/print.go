// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

const redactedValue = "[redacted]"

func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("cacheid", cfg.Instance.FileServerCacheID).
		Int("lines", len(cfg.Upstream.Lines)).
		Msg("Starting CruiseTracker")

	configYAML, err := cfg.printable()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().
		Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}

// printable marshals the config to YAML with credentials removed.
func (cfg *ServerConfig) printable() ([]byte, error) {
	// Redact sensitive fields using a shallow copy of the config.
	printableConfig := *cfg

	printableConfig.Upstream.RawBaseURL = redactURL(printableConfig.Upstream.RawBaseURL)

	return yaml.MarshalWithOptions(
		printableConfig,
		GetDurationEncoderOption(),
	)
}

// redactURL hides the password of a URL carrying basic auth credentials.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}

	if _, hasPassword := parsed.User.Password(); hasPassword {
		parsed.User = url.UserPassword(parsed.User.Username(), redactedValue)
	}

	return parsed.String()
}
