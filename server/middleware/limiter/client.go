// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"net/http"
	"net/netip"
	"strings"

	"codeberg.org/cruisetracker/cruisetracker/config"
)

var errMissingClientIP = errors.New("could not determine client IP")

// listing says which configured address list, if any, a client is on.
type listing int

const (
	unlisted listing = iota
	passListed
	blockListed
)

func (l listing) String() string {
	switch l {
	case passListed:
		return "pass-list"
	case blockListed:
		return "block-list"
	default:
		return "none"
	}
}

// ClientInfo is the limiter's view of the client behind one request.
type ClientInfo struct {
	ip netip.Addr

	// network is ip masked to the configured prefix length.
	// Clients on the same network share a bucket.
	network netip.Prefix

	// limiter is chosen by Evaluate once the route is known.
	limiter *limiterWrapper
}

func newClientInfo(r *http.Request) (*ClientInfo, error) {
	addr, ok := clientAddr(r)
	if !ok {
		return nil, errMissingClientIP
	}

	return &ClientInfo{
		ip:      addr,
		network: networkOf(addr, config.Global.Limiter.IPv4Prefix, config.Global.Limiter.IPv6Prefix),
	}, nil
}

// listed checks the pass list before the block list, so an address on
// both is let through.
func (c *ClientInfo) listed() listing {
	switch {
	case inList(c.ip, config.Global.Limiter.PassIPs):
		return passListed
	case inList(c.ip, config.Global.Limiter.BlockIPs):
		return blockListed
	default:
		return unlisted
	}
}

// bucketKey names the token bucket shared by the client's network.
func (c *ClientInfo) bucketKey() string {
	return c.network.String()
}

func isExcludedPath(path string) bool {
	for _, p := range excludedPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
