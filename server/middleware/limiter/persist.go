// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/cruisetracker/cruisetracker/config"
)

// serializableLimiter is the on-disk form of a limiterWrapper.
type serializableLimiter struct {
	Network    string    `json:"network"`
	LastAccess time.Time `json:"last_access"`
	Rate       float64   `json:"rate"`
	Burst      int       `json:"burst"`
	Tokens     float64   `json:"tokens"`
}

// Save writes every bucket to w as JSON.
func Save(w io.Writer) error {
	now := timeNow()
	state := make([]serializableLimiter, 0)

	limiters.Range(func(_, value any) bool {
		lw, ok := value.(*limiterWrapper)
		if !ok {
			return true
		}

		lw.mu.Lock()
		state = append(state, serializableLimiter{
			Network:    lw.network,
			LastAccess: lw.lastAccess,
			Rate:       float64(lw.limiter.Limit()),
			Burst:      lw.limiter.Burst(),
			Tokens:     lw.limiter.TokensAt(now),
		})
		lw.mu.Unlock()

		return true
	})

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(state); err != nil {
		return err
	}

	log.Info().Int("count", len(state)).Msg("Saved limiter state")

	return nil
}

// InitFile replaces the buckets in memory with those read from r.
// Empty input leaves memory as it is.
func InitFile(r io.Reader) error {
	var state []serializableLimiter

	if err := json.NewDecoder(r).Decode(&state); err != nil {
		if errors.Is(err, io.EOF) {
			log.Info().Msg("Limiter state file is empty, starting fresh")

			return nil
		}

		return err
	}

	limiters.Clear()

	now := timeNow()

	for _, saved := range state {
		lim := rate.NewLimiter(rate.Limit(saved.Rate), saved.Burst)

		// A restart must not refill the buckets.
		if spent := int(float64(saved.Burst) - saved.Tokens); spent > 0 {
			lim.AllowN(now, spent)
		}

		limiters.Store(saved.Network, &limiterWrapper{
			limiter:    lim,
			network:    saved.Network,
			lastAccess: saved.LastAccess,
		})
	}

	log.Info().Int("count", len(state)).Msg("Loaded limiter state")

	return nil
}

// Init restores the buckets saved by Fini when persistence is configured.
// A missing or corrupt file means starting fresh.
func Init() {
	path := config.Global.Limiter.StateFilepath
	if path == "" {
		log.Info().Msg("Limiter enabled, state persistence disabled")

		return
	}

	file, err := os.Open(path) // #nosec G304 -- operator supplied path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().Str("file", path).Msg("No limiter state file yet, starting fresh")
		} else {
			log.Warn().Err(err).Str("file", path).Msg("Could not open limiter state file, starting fresh")
		}

		return
	}
	defer file.Close()

	if err := InitFile(file); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Could not parse limiter state file, starting fresh")
	}
}

// Fini saves the buckets on shutdown when persistence is configured.
//
// The state is written next to the target and renamed over it, so an
// interrupted shutdown cannot leave a truncated file behind.
func Fini() {
	path := config.Global.Limiter.StateFilepath
	if path == "" {
		return
	}

	if err := saveFile(path); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Failed to save limiter state")
	}
}

func saveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if err := Save(tmp); err != nil {
		_ = tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
