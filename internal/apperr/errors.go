package apperr

import "errors"

// ErrInvalidInput is returned when a target address or provider selection fails validation.
// Use errors.Is(err, apperr.ErrInvalidInput) to detect validation failures uniformly.
var ErrInvalidInput = errors.New("invalid input")

// ErrRequestFailed is returned when an HTTP request fails at the transport level
// or the server responds with a non-2xx status code.
var ErrRequestFailed = errors.New("request failed")

// ErrClientCreation is returned when an HTTP client cannot be constructed.
// Client construction is never retried.
var ErrClientCreation = errors.New("client creation failed")
