package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/imroc/req/v3"
	jsoniter "github.com/json-iterator/go"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/tbckr/vantage/internal/apperr"
	"github.com/tbckr/vantage/internal/httpclient"
)

// Diagnostics attached to Request and ParseIP failures.
const (
	MsgConnect   = "unable to connect"
	MsgReadBody  = "unable to read response body"
	MsgParseJSON = "unable to parse json"
	MsgParseIP   = "unable to parse ip"
)

// ProbeError names the step of an HTTP probe that failed.
// It matches apperr.ErrRequestFailed with errors.Is.
type ProbeError struct {
	Diagnostic string
	Err        error
}

func (e *ProbeError) Error() string {
	if e.Err == nil {
		return e.Diagnostic
	}
	return e.Diagnostic + ": " + e.Err.Error()
}

func (e *ProbeError) Unwrap() []error {
	if e.Err == nil {
		return []error{apperr.ErrRequestFailed}
	}
	return []error{apperr.ErrRequestFailed, e.Err}
}

// Fetch sends r to url and decodes the body as JSON.
func Fetch(ctx context.Context, r *req.Request, method, url string) (jsoniter.Any, error) {
	body, err := send(ctx, r, method, url)
	if err != nil {
		return nil, err
	}
	v, err := Decode(body)
	if err != nil {
		return nil, &ProbeError{Diagnostic: MsgParseJSON, Err: err}
	}
	return v, nil
}

// FetchText sends r to url and returns the sanitized body.
func FetchText(ctx context.Context, r *req.Request, method, url string) (string, error) {
	body, err := send(ctx, r, method, url)
	if err != nil {
		return "", err
	}
	return Sanitize(string(body)), nil
}

func send(ctx context.Context, r *req.Request, method, url string) ([]byte, error) {
	resp, err := r.SetContext(ctx).Send(method, url)
	if err != nil {
		return nil, &ProbeError{Diagnostic: MsgConnect, Err: err}
	}
	if resp.Response == nil || !resp.IsSuccessState() {
		return nil, &ProbeError{Diagnostic: fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode)}
	}
	body, err := resp.ToBytes()
	if err != nil {
		return nil, &ProbeError{Diagnostic: MsgReadBody, Err: err}
	}
	return body, nil
}

// Prober carries what an HTTP adapter needs to run its probes.
type Prober struct {
	provider string
	clients  ClientFactory
	logger   *slog.Logger
}

// NewProber returns a Prober reporting as provider.
func NewProber(provider string, clients ClientFactory, logger *slog.Logger) Prober {
	return Prober{provider: provider, clients: clients, logger: logger}
}

// Client builds a fresh client pinned to family. The error wraps
// apperr.ErrClientCreation.
func (p Prober) Client(family httpclient.Family) (*req.Client, error) {
	client, err := p.clients.Client(family)
	if err != nil {
		if errors.Is(err, apperr.ErrClientCreation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperr.ErrClientCreation, err)
	}
	return client, nil
}

// GetJSON issues a single GET through a fresh client pinned to family.
func (p Prober) GetJSON(ctx context.Context, family httpclient.Family, url string) (jsoniter.Any, error) {
	client, err := p.Client(family)
	if err != nil {
		return nil, err
	}
	return Fetch(ctx, client.R(), http.MethodGet, url)
}

// JSONProbe returns a probe that fetches url over family and maps the body
// with parse. Fetch failures become Request or ClientCreation records.
func (p Prober) JSONProbe(ctx context.Context, family httpclient.Family, url string, parse func(jsoniter.Any) Result) Probe {
	return func() Result {
		body, err := p.GetJSON(ctx, family, url)
		if err != nil {
			return p.Failed(err)
		}
		return parse(body)
	}
}

// Failed converts a probe error into the matching failure record.
func (p Prober) Failed(err error) Result {
	p.logger.Debug("probe failed", "provider", p.provider, "error", err)
	if errors.Is(err, apperr.ErrClientCreation) {
		return ClientCreationFailure(p.provider)
	}
	var pe *ProbeError
	if errors.As(err, &pe) {
		return RequestFailure(p.provider, pe.Diagnostic)
	}
	return RequestFailure(p.provider, err.Error())
}

// Probe is one independently scheduled unit of work inside an adapter.
type Probe func() Result

// RunProbes runs every probe concurrently and returns their results in
// argument order. Each result is stamped with the time its own probe took.
// A probe that panics yields a JSONParse failure; the others are unaffected.
func RunProbes(provider string, probes ...Probe) []Result {
	results := make([]Result, len(probes))
	var wg conc.WaitGroup
	for i, probe := range probes {
		wg.Go(func() {
			var pc panics.Catcher
			start := time.Now()
			pc.Try(func() { results[i] = probe() })
			if r := pc.Recovered(); r != nil {
				results[i] = JSONParseFailure(provider, "probe terminated abnormally")
			}
			results[i].Elapsed = time.Since(start)
		})
	}
	wg.Wait()
	return results
}
