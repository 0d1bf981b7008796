// Package services defines the canonical result model and the shared
// plumbing used by every provider adapter.
package services

import (
	"context"
	"net/netip"

	"github.com/imroc/req/v3"

	"github.com/tbckr/vantage/internal/httpclient"
)

// Provider is the contract every adapter implements.
//
// Check never panics on bad input and never returns an empty slice: every
// probe it attempts yields exactly one Result. An invalid target means the
// caller asked for a self-lookup.
type Provider interface {
	Name() string
	Check(ctx context.Context, target netip.Addr) []Result
}

// ClientFactory hands out a fresh HTTP client pinned to the given family.
// *httpclient.Factory satisfies this interface directly.
type ClientFactory interface {
	Client(family httpclient.Family) (*req.Client, error)
}

// Mode declares which lookups a provider can serve.
type Mode int

// Lookup modes.
const (
	// ModeSelf providers only report the caller's own address.
	ModeSelf Mode = iota + 1
	// ModeTarget providers only look up an explicit address.
	ModeTarget
	// ModeBoth providers serve both.
	ModeBoth
)

// String returns a short description of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSelf:
		return "self"
	case ModeTarget:
		return "target"
	case ModeBoth:
		return "self+target"
	default:
		return "unknown"
	}
}

// Supports reports whether the mode can serve a lookup of target.
func (m Mode) Supports(target netip.Addr) bool {
	if target.IsValid() {
		return m == ModeTarget || m == ModeBoth
	}
	return m == ModeSelf || m == ModeBoth
}

// CheckMode short-circuits lookups the provider cannot serve. When ok is
// false the caller must return results as-is without touching the network.
func CheckMode(provider string, mode Mode, target netip.Addr) (results []Result, ok bool) {
	if mode.Supports(target) {
		return nil, true
	}
	return []Result{Unsupported(provider)}, false
}
