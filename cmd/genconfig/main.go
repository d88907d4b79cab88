// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example configuration files in deploy/
// from the defaults compiled into the server.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644
	dirPerm        = 0o755

	envFileHeader = `# CruiseTracker configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
# Cruise lines are "id:name:path" entries separated by commas.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	yamlFileHeader = `# CruiseTracker configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
# The path of a cruise line is relative to upstream.baseUrl unless it is
# an absolute URL.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
	proxyFooter = `## Network proxy settings
## ref: https://pkg.go.dev/net/http#ProxyFromEnvironment
# HTTPS_PROXY=
# HTTP_PROXY=
`
)

// essential settings are written uncommented.
var essential = []string{
	"CRUISETRACKER_HOST",
	"CRUISETRACKER_PORT",
	"CRUISETRACKER_UPSTREAM",
	"CRUISETRACKER_LINES",
}

func main() {
	audit.SetDefaultLogger()

	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	settings := cfg.Settings()

	yamlText, err := renderYAML(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render YAML example")
	}

	outputs := []struct{ path, content string }{
		{envOutputFile, renderEnv(settings)},
		{yamlOutputFile, yamlText},
	}

	for _, out := range outputs {
		if err := write(out.path, out.content); err != nil {
			log.Fatal().Err(err).Str("path", out.path).Msg("Failed to write example configuration")
		}

		log.Info().Str("path", out.path).Msg("Generated example configuration")
	}
}

func write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(content), filePerm)
}

// renderEnv lists one variable per setting, grouped by section.
//
// Optional settings are commented out. Empty values are left blank so the
// reader fills them in rather than copying a meaningless default.
func renderEnv(settings []config.Setting) string {
	var sb strings.Builder

	sb.WriteString(envFileHeader)

	section := ""

	for _, s := range settings {
		if s.Section != section {
			section = s.Section
			fmt.Fprintf(&sb, "\n## %s\n", section)
		}

		value := envValue(s.Value)

		switch {
		case slices.Contains(essential, s.Env):
			fmt.Fprintf(&sb, "%s=%q\n", s.Env, value)
		case value == "":
			fmt.Fprintf(&sb, "# %s=\n", s.Env)
		default:
			fmt.Fprintf(&sb, "# %s=%s\n", s.Env, value)
		}
	}

	sb.WriteString("\n" + proxyFooter)

	return sb.String()
}

// envValue formats v the way the server parses it back from the environment.
func envValue(v any) string {
	switch v := v.(type) {
	case []string:
		return strings.Join(v, ",")
	case time.Duration:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// renderYAML writes each setting under its section key, commented out
// unless it is essential.
func renderYAML(settings []config.Setting) (string, error) {
	var sb strings.Builder

	sb.WriteString(yamlFileHeader)

	section := ""

	for _, s := range settings {
		parent, key, _ := strings.Cut(s.YAMLKey, ".")
		if parent != section {
			section = parent
			fmt.Fprintf(&sb, "\n%s:\n", section)
		}

		body, err := yaml.MarshalWithOptions(
			map[string]any{key: s.Value},
			config.GetDurationEncoderOption(),
			yaml.Indent(2),
		)
		if err != nil {
			return "", fmt.Errorf("%s: %w", s.YAMLKey, err)
		}

		prefix := "  # "
		if slices.Contains(essential, s.Env) {
			prefix = "  "
		}

		for line := range strings.SplitSeq(strings.TrimRight(string(body), "\n"), "\n") {
			sb.WriteString(prefix + line + "\n")
		}
	}

	return sb.String(), nil
}
