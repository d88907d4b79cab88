// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"reflect"
	"strings"
)

// Setting is one option that can be set from the environment.
type Setting struct {
	// Section is the name of the top-level group, e.g. "Cache".
	Section string

	// Env is the environment variable, e.g. "CRUISETRACKER_CACHE_TTL".
	Env string

	// YAMLKey is the dotted path in the configuration file, e.g. "cache.cacheTTL".
	YAMLKey string

	Value any
}

// Settings lists every environment-backed option of cfg in declaration order.
func (cfg *ServerConfig) Settings() []Setting {
	var out []Setting

	collectSettings(reflect.ValueOf(cfg).Elem(), "", "", &out)

	return out
}

func collectSettings(v reflect.Value, section, yamlPrefix string, out *[]Setting) {
	t := v.Type()

	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		yamlKey, _, _ := strings.Cut(sf.Tag.Get("yaml"), ",")
		if yamlKey == "-" {
			continue
		}

		if yamlPrefix != "" {
			yamlKey = yamlPrefix + "." + yamlKey
		}

		tag, ok := parseEnvTag(sf.Tag.Get("env"))
		if !ok {
			if v.Field(i).Kind() == reflect.Struct {
				inner := section
				if inner == "" {
					inner = sf.Name
				}

				collectSettings(v.Field(i), inner, yamlKey, out)
			}

			continue
		}

		*out = append(*out, Setting{
			Section: section,
			Env:     tag.name,
			YAMLKey: yamlKey,
			Value:   v.Field(i).Interface(),
		})
	}
}
