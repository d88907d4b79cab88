// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"flag"
	"io/fs"
	"os"
)

const (
	configFlagName    = "config"
	configFileEnvVar  = "CRUISETRACKER_CONFIGFILE"
	defaultConfigPath = "./config.yaml"
	altConfigPath     = "./config.yml"
)

// resolveConfigPath returns the YAML file to load: the -config flag when
// given, then CRUISETRACKER_CONFIGFILE, then ./config.yaml, or ./config.yml
// if only that one exists.
//
// The flag is registered on flags on first use and flags is parsed if it
// has not been already.
func resolveConfigPath(flags *flag.FlagSet) string {
	if flags.Lookup(configFlagName) == nil {
		flags.String(configFlagName, defaultConfigPath, "Path to a CruiseTracker configuration file in YAML format.")
	}

	if !flags.Parsed() {
		_ = flags.Parse(os.Args[1:])
	}

	explicit := false

	flags.Visit(func(f *flag.Flag) {
		explicit = explicit || f.Name == configFlagName
	})

	switch {
	case explicit:
		return flags.Lookup(configFlagName).Value.String()
	case os.Getenv(configFileEnvVar) != "":
		return os.Getenv(configFileEnvVar)
	case !exists(defaultConfigPath) && exists(altConfigPath):
		return altConfigPath
	default:
		return defaultConfigPath
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)

	return !errors.Is(err, fs.ErrNotExist)
}
