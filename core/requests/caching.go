// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/requests/lrucache"
)

// cache holds successful upstream bodies keyed by URL. It is nil when caching is disabled.
var cache *lrucache.Cache

// Setup builds the response cache from config.Global.
func Setup() error {
	if !config.Global.Cache.Enabled {
		cache = nil

		log.Info().Msg("Response cache disabled")

		return nil
	}

	c, err := lrucache.New(config.Global.Cache.Size, config.Global.Cache.TTL, config.Global.Cache.Compress)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	cache = c

	log.Info().
		Int("size", config.Global.Cache.Size).
		Dur("ttl", config.Global.Cache.TTL).
		Bool("compress", config.Global.Cache.Compress).
		Msg("Initialized API response cache")

	return nil
}

// cacheMode is what a request may do with the cache, following the
// Cache-Control header of the browser request being served.
type cacheMode struct {
	read, write bool
}

func cacheModeFor(incoming http.Header) cacheMode {
	if cache == nil {
		return cacheMode{}
	}

	directives := strings.ToLower(incoming.Get("Cache-Control"))

	switch {
	case strings.Contains(directives, "no-cache"):
		// A hard reload: skip both read and write.
		return cacheMode{}
	case strings.Contains(directives, "no-store"):
		return cacheMode{read: true}
	default:
		return cacheMode{read: true, write: true}
	}
}

func (m cacheMode) load(url string) ([]byte, bool) {
	if !m.read {
		return nil, false
	}

	return cache.Get(url)
}

func (m cacheMode) store(url string, body []byte) {
	if m.write {
		cache.Add(url, body)
	}
}

// InvalidateURLs drops every cached response whose URL starts with one of
// prefixes, returning how many were dropped and their URLs.
//
// Safe to call when caching is disabled.
func InvalidateURLs(prefixes []string) (int, []string) {
	if cache == nil || len(prefixes) == 0 {
		return 0, nil
	}

	var dropped []string

	for _, url := range cache.Keys() {
		matches := slices.ContainsFunc(prefixes, func(prefix string) bool {
			return strings.HasPrefix(url, prefix)
		})

		if matches && cache.Remove(url) {
			dropped = append(dropped, url)
		}
	}

	return len(dropped), dropped
}

// PurgeCache drops every cached response and returns how many were dropped.
//
// Safe to call when caching is disabled.
func PurgeCache() int {
	if cache == nil {
		return 0
	}

	return cache.Purge()
}
