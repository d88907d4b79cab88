// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/config"
)

var errSocketPermissions = errors.New("failed to apply unix socket permissions")

// listen opens the unix socket when one is configured, and the TCP address
// otherwise.
func listen(ctx context.Context) (net.Listener, error) {
	basic := config.Global.Basic

	if basic.UnixSocket != "" {
		return listenUnix(ctx, basic)
	}

	addr := net.JoinHostPort(basic.Host, basic.Port)

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	// Port may have been 0; report the one the kernel picked.
	bound := ln.Addr().(*net.TCPAddr)

	log.Info().
		Str("address", bound.String()).
		Str("url", fmt.Sprintf("http://localhost:%d/", bound.Port)).
		Msg("Listening on TCP")

	return ln, nil
}

func listenUnix(ctx context.Context, basic config.BasicConfig) (net.Listener, error) {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "unix", basic.UnixSocket)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on unix socket %s: %w", basic.UnixSocket, err)
	}

	if err := applySocketPermissions(basic); err != nil {
		_ = ln.Close()

		return nil, fmt.Errorf("%w: %w", errSocketPermissions, err)
	}

	log.Info().
		Str("socket", basic.UnixSocket).
		Str("mode", basic.UnixSocketPermissions.String()).
		Msg("Listening on unix socket")

	return ln, nil
}

// applySocketPermissions sets the socket's mode, and its owner when a user
// or group is configured.
func applySocketPermissions(basic config.BasicConfig) error {
	uid, gid := -1, -1

	if basic.UnixSocketUser != "" {
		id, err := resolveID(basic.UnixSocketUser, func(name string) (string, error) {
			u, err := user.Lookup(name)
			if err != nil {
				return "", err
			}

			return u.Uid, nil
		})
		if err != nil {
			return fmt.Errorf("socket user %q: %w", basic.UnixSocketUser, err)
		}

		uid = id
	}

	if basic.UnixSocketGroup != "" {
		id, err := resolveID(basic.UnixSocketGroup, func(name string) (string, error) {
			g, err := user.LookupGroup(name)
			if err != nil {
				return "", err
			}

			return g.Gid, nil
		})
		if err != nil {
			return fmt.Errorf("socket group %q: %w", basic.UnixSocketGroup, err)
		}

		gid = id
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(basic.UnixSocket, uid, gid); err != nil {
			return err
		}
	}

	return os.Chmod(basic.UnixSocket, basic.UnixSocketPermissions)
}

// resolveID accepts either a numeric ID or a name to look up.
func resolveID(value string, lookup func(string) (string, error)) (int, error) {
	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	raw, err := lookup(value)
	if err != nil {
		return -1, err
	}

	return strconv.Atoi(raw)
}
