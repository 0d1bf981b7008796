// Package httpclient builds the HTTP clients used by provider adapters.
package httpclient

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/imroc/req/v3"

	"github.com/tbckr/vantage/internal/apperr"
	"github.com/tbckr/vantage/internal/version"
)

// Timeout bounds every request issued through a client built by New.
// It is the only resilience mechanism; nothing is retried.
const Timeout = 5 * time.Second

// DefaultUserAgent is the User-Agent sent when no explicit value is configured.
var DefaultUserAgent = "vantage/" + version.Current().Version + " (+https://github.com/tbckr/vantage)"

// Family selects the IP family outgoing connections are pinned to.
type Family int

const (
	// FamilyAny leaves family selection to the operating system.
	FamilyAny Family = iota
	// FamilyIPv4 binds to 0.0.0.0 and only dials IPv4 addresses.
	FamilyIPv4
	// FamilyIPv6 binds to :: and only dials IPv6 addresses.
	FamilyIPv6
)

// String returns the lowercase name of the family.
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "any"
	}
}

// Options configures a client built by New.
type Options struct {
	// UserAgent overrides DefaultUserAgent when non-empty.
	UserAgent string
	// Family pins the source address family.
	Family Family
	// Proxy is an http://, https:// or socks5:// URL. Empty means proxy env vars.
	Proxy string
	// Logger receives debug response logs when Debug is set.
	Logger *slog.Logger
	Debug  bool
}

// ResolveProxy returns the proxy value that will actually be used.
// If proxy is explicitly configured, it is returned as-is.
// Otherwise the standard proxy env vars are checked; if any are set
// "<from environment>" is returned. If none are set, an empty string is returned.
func ResolveProxy(proxy string) string {
	if proxy != "" {
		return proxy
	}
	for _, env := range []string{"HTTPS_PROXY", "https_proxy", "HTTP_PROXY", "http_proxy", "ALL_PROXY", "all_proxy"} {
		if os.Getenv(env) != "" {
			return "<from environment>"
		}
	}
	return ""
}

// New builds a *req.Client for a single provider probe.
//
// The client carries its own cookie jar, so cookies set by one request are
// sent on later requests through the same client and nowhere else.
// Every request is bounded by Timeout. The returned error wraps
// apperr.ErrClientCreation.
func New(opts Options) (*req.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: cookie jar: %w", apperr.ErrClientCreation, err)
	}

	client := req.NewClient().
		SetTimeout(Timeout).
		SetCookieJar(jar).
		SetDial(pinnedDial(opts.Family))

	if opts.UserAgent != "" {
		client.SetUserAgent(opts.UserAgent)
	} else {
		client.SetUserAgent(DefaultUserAgent)
	}

	if opts.Proxy != "" {
		if err := validateProxy(opts.Proxy); err != nil {
			return nil, fmt.Errorf("%w: invalid proxy URL %q: %w", apperr.ErrClientCreation, opts.Proxy, err)
		}
		client.SetProxyURL(opts.Proxy)
	} else {
		client.SetProxy(http.ProxyFromEnvironment)
	}

	if opts.Debug && opts.Logger != nil {
		attachDebugHook(client, opts.Logger, opts.Family)
	}

	return client, nil
}

// pinnedDial returns a dial function that binds the local side of every TCP
// connection to the wildcard address of family. FamilyAny dials unchanged.
func pinnedDial(family Family) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: Timeout, KeepAlive: 15 * time.Second}
	var pinned string
	switch family {
	case FamilyIPv4:
		dialer.LocalAddr = &net.TCPAddr{IP: net.IPv4zero}
		pinned = "tcp4"
	case FamilyIPv6:
		dialer.LocalAddr = &net.TCPAddr{IP: net.IPv6unspecified}
		pinned = "tcp6"
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		if pinned != "" && (network == "tcp" || network == "tcp4" || network == "tcp6") {
			network = pinned
		}
		return dialer.DialContext(ctx, network, addr)
	}
}

// attachDebugHook registers an OnAfterResponse hook that logs the HTTP method,
// URL, family and status code at DEBUG level, and a body snippet on non-2xx responses.
func attachDebugHook(client *req.Client, logger *slog.Logger, family Family) {
	client.OnAfterResponse(func(_ *req.Client, resp *req.Response) error {
		if resp.Request == nil || resp.Request.RawRequest == nil {
			return nil
		}
		logger.Debug("http response",
			"method", resp.Request.RawRequest.Method,
			"url", resp.Request.RawRequest.URL.String(),
			"family", family.String(),
			"status", resp.StatusCode,
		)
		if !resp.IsSuccessState() {
			body := resp.String()
			if len(body) > 512 {
				body = body[:512]
			}
			logger.Debug("http error body", "status", resp.StatusCode, "body", body)
		}
		return nil
	})
}

// validateProxy performs a basic check that the proxy URL has a recognised scheme.
func validateProxy(proxy string) error {
	for _, scheme := range []string{"http://", "https://", "socks5://"} {
		if len(proxy) >= len(scheme) && proxy[:len(scheme)] == scheme {
			return nil
		}
	}
	return fmt.Errorf("proxy scheme must be http://, https://, or socks5://")
}

// Factory hands out fresh clients that share every option except the family.
// Each call to Client returns a new client; clients are never shared.
type Factory struct {
	opts Options
}

// NewFactory validates opts once and returns a Factory.
func NewFactory(opts Options) (*Factory, error) {
	if opts.Proxy != "" {
		if err := validateProxy(opts.Proxy); err != nil {
			return nil, fmt.Errorf("%w: invalid proxy URL %q: %w", apperr.ErrClientCreation, opts.Proxy, err)
		}
	}
	return &Factory{opts: opts}, nil
}

// Client builds a new client pinned to family.
func (f *Factory) Client(family Family) (*req.Client, error) {
	opts := f.opts
	opts.Family = family
	return New(opts)
}
