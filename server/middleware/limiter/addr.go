// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/cruisetracker/cruisetracker/server/utils"
)

// clientAddr resolves the address of the browser behind r.
//
// X-Real-IP, then the last hop of X-Forwarded-For, are used only when the
// peer is a trusted proxy. Otherwise the peer itself is the client.
func clientAddr(r *http.Request) (netip.Addr, bool) {
	peer, ok := utils.PeerAddr(r)
	if !ok {
		return netip.Addr{}, false
	}

	if !utils.IsTrustedPeer(peer) {
		return peer, true
	}

	for _, candidate := range forwardedCandidates(r.Header) {
		addr, err := netip.ParseAddr(candidate)
		if err == nil {
			return addr.Unmap(), true
		}

		log.Debug().
			Str("peer", peer.String()).
			Str("forwarded", candidate).
			Msg("Ignoring unparsable forwarded address")
	}

	return peer, true
}

func forwardedCandidates(h http.Header) []string {
	var candidates []string

	if realIP := strings.TrimSpace(h.Get("X-Real-IP")); realIP != "" {
		candidates = append(candidates, realIP)
	}

	if xff := h.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
			candidates = append(candidates, last)
		}
	}

	return candidates
}

// inList reports whether addr equals, or falls inside, any entry of list.
// Entries are bare addresses or CIDR prefixes; malformed ones never match.
func inList(addr netip.Addr, list []string) bool {
	for _, entry := range list {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			if prefix.Contains(addr) {
				return true
			}

			continue
		}

		if other, err := netip.ParseAddr(entry); err == nil && other.Unmap() == addr {
			return true
		}
	}

	return false
}

// networkOf returns the prefix that groups addr with its neighbours for
// rate limiting.
func networkOf(addr netip.Addr, ipv4Bits, ipv6Bits int) netip.Prefix {
	bits := ipv6Bits
	if addr.Is4() {
		bits = ipv4Bits
	}

	prefix, err := addr.Prefix(bits)
	if err != nil {
		// Out-of-range lengths are rejected by config validation.
		return netip.PrefixFrom(addr, addr.BitLen())
	}

	return prefix
}
