// Package testutil provides shared test helpers for adapter and orchestrator tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"net/http/cookiejar"
	"net/netip"
	"slices"
	"sync"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"

	"github.com/tbckr/vantage/internal/httpclient"
	"github.com/tbckr/vantage/internal/services"
)

// Clients implements services.ClientFactory with clients whose transport is
// an httpmock.MockTransport, so no test ever reaches the network.
type Clients struct {
	// Transport serves every family without an entry in PerFamily.
	Transport *httpmock.MockTransport
	// PerFamily overrides Transport for specific families.
	PerFamily map[httpclient.Family]*httpmock.MockTransport
	// Err, when set, makes every Client call fail.
	Err error

	mu       sync.Mutex
	families []httpclient.Family
}

var _ services.ClientFactory = (*Clients)(nil)

// NewClients returns a Clients with a fresh mock transport.
func NewClients() *Clients {
	return &Clients{Transport: httpmock.NewMockTransport()}
}

// Client implements services.ClientFactory.
func (c *Clients) Client(family httpclient.Family) (*req.Client, error) {
	c.mu.Lock()
	c.families = append(c.families, family)
	c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	transport := c.Transport
	if t, ok := c.PerFamily[family]; ok {
		transport = t
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := req.C().SetCookieJar(jar)
	client.GetClient().Transport = transport
	return client, nil
}

// Families returns the family of every client handed out, in call order.
func (c *Clients) Families() []httpclient.Family {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]httpclient.Family, len(c.families))
	copy(out, c.families)
	return out
}

// TotalCalls sums the HTTP calls seen by every transport.
func (c *Clients) TotalCalls() int {
	total := c.Transport.GetTotalCallCount()
	for _, t := range c.PerFamily {
		total += t.GetTotalCallCount()
	}
	return total
}

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Provider is a scripted services.Provider for orchestrator tests.
type Provider struct {
	ProviderName string
	Results      []services.Result
	// PanicWith, when non-nil, makes Check panic with this value.
	PanicWith any

	mu      sync.Mutex
	targets []netip.Addr
}

var _ services.Provider = (*Provider)(nil)

// Name implements services.Provider.
func (p *Provider) Name() string { return p.ProviderName }

// Check implements services.Provider.
func (p *Provider) Check(_ context.Context, target netip.Addr) []services.Result {
	p.mu.Lock()
	p.targets = append(p.targets, target)
	p.mu.Unlock()
	if p.PanicWith != nil {
		panic(p.PanicWith)
	}
	return slices.Clone(p.Results)
}

// Targets returns every target Check was called with.
func (p *Provider) Targets() []netip.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.targets)
}
