// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// useDotEnv exports the variables of the first .env file found in the
// working directory or next to the binary. Variables already in the
// environment are left alone.
func useDotEnv() error {
	for _, dir := range dotEnvDirs() {
		path := filepath.Join(dir, ".env")

		loaded, err := loadDotEnv(path)
		if err != nil {
			return err
		}

		if loaded {
			return nil
		}
	}

	log.Debug().Msg("No .env file found")

	return nil
}

func dotEnvDirs() []string {
	var dirs []string

	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}

	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}

	return dirs
}

// loadDotEnv reports whether path existed. Unreadable files and malformed
// lines are logged and skipped.
func loadDotEnv(path string) (bool, error) {
	// #nosec G304 -- path is built from the working or binary directory.
	data, err := os.ReadFile(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		log.Warn().Err(err).Str("path", path).Msg("Could not read .env file")

		return false, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))

	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		key, value, ok := parseDotEnvLine(scanner.Text())
		if !ok {
			log.Warn().Str("path", path).Int("line", lineNumber).Msg("Ignoring malformed .env line")

			continue
		}

		if key == "" {
			continue
		}

		if _, set := os.LookupEnv(key); set {
			continue
		}

		if err := os.Setenv(key, value); err != nil {
			return true, err
		}
	}

	log.Info().Str("path", path).Msg("Loaded configuration from .env file")

	return true, scanner.Err()
}

// parseDotEnvLine splits KEY=VALUE. Blank lines and comments yield an empty
// key; a line without '=' or without a key is malformed. Matching outer
// quotes are removed.
func parseDotEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", true
	}

	key, value, found := strings.Cut(strings.TrimPrefix(line, "export "), "=")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}

	value = strings.TrimSpace(value)

	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}

	return key, value, true
}
