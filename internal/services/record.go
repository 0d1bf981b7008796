package services

import (
	"fmt"
	"net/netip"
	"time"
)

// ErrorKind classifies why a probe failed. ErrorNone marks a successful record.
type ErrorKind string

// The taxonomy is closed: every record carries exactly one of these kinds.
const (
	ErrorNone           ErrorKind = ""
	ErrorJSONParse      ErrorKind = "json_parse"
	ErrorRequest        ErrorKind = "request"
	ErrorParseIP        ErrorKind = "parse_ip"
	ErrorClientCreation ErrorKind = "client_creation_failed"
	ErrorUnsupported    ErrorKind = "unsupported"
)

// Failure is the error carried by a record. The zero value means no error.
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message,omitempty"`
}

// String renders the failure for humans, e.g. "request: unable to connect".
func (f Failure) String() string {
	switch f.Kind {
	case ErrorNone:
		return "none"
	case ErrorClientCreation:
		return "unable to create HTTP client"
	case ErrorUnsupported:
		return "lookup mode not supported"
	}
	if f.Message == "" {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Message
}

// AS identifies the autonomous system an address is announced from.
type AS struct {
	Number uint32 `json:"number"`
	Name   string `json:"name"`
}

// Coordinates are kept as the decimal text the provider sent.
type Coordinates struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Region is the geographic location of an address. Empty strings are absent fields.
type Region struct {
	Country     string       `json:"country,omitempty"`
	Region      string       `json:"region,omitempty"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	TimeZone    string       `json:"time_zone,omitempty"`
}

// Risk is a provider's abuse classification of an address.
type Risk struct {
	Score *uint16   `json:"score,omitempty"`
	Tags  []RiskTag `json:"tags,omitempty"`
}

// Result is the normalized outcome of one provider probe.
//
// Success is true exactly when Error.Kind is ErrorNone. Failed results never
// carry IP, AS, Region or Risk; build them with the failure constructors below.
// A zero Elapsed means the probe was not timed.
type Result struct {
	Success  bool          `json:"success"`
	Error    Failure       `json:"error,omitzero"`
	Provider string        `json:"provider"`
	IP       netip.Addr    `json:"ip,omitzero"`
	AS       *AS           `json:"autonomous_system,omitempty"`
	Region   *Region       `json:"region,omitempty"`
	Risk     *Risk         `json:"risk,omitempty"`
	Elapsed  time.Duration `json:"elapsed,omitzero"`
}

// String renders a one-line summary of the result.
func (r Result) String() string {
	if !r.Success {
		return fmt.Sprintf("%s Error: %s", r.Provider, r.Error)
	}
	if !r.IP.IsValid() {
		return r.Provider + " Done but have no IP"
	}
	return fmt.Sprintf("%s Done: %s", r.Provider, r.IP)
}

// Succeeded returns a successful result for provider observing ip.
func Succeeded(provider string, ip netip.Addr) Result {
	return Result{Success: true, Provider: provider, IP: ip.Unmap()}
}

// JSONParseFailure reports a response whose structure could not be interpreted.
func JSONParseFailure(provider, message string) Result {
	return failed(provider, Failure{Kind: ErrorJSONParse, Message: message})
}

// RequestFailure reports a transport-level failure or a provider-side rejection.
func RequestFailure(provider, message string) Result {
	return failed(provider, Failure{Kind: ErrorRequest, Message: message})
}

// ParseIPFailure reports a response without a usable address.
func ParseIPFailure(provider, message string) Result {
	return failed(provider, Failure{Kind: ErrorParseIP, Message: message})
}

// ClientCreationFailure reports that no HTTP client could be built for the probe.
func ClientCreationFailure(provider string) Result {
	return failed(provider, Failure{Kind: ErrorClientCreation})
}

// Unsupported reports a lookup mode the provider cannot serve.
func Unsupported(provider string) Result {
	return failed(provider, Failure{Kind: ErrorUnsupported})
}

func failed(provider string, f Failure) Result {
	return Result{Provider: provider, Error: f}
}
