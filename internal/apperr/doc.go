// Package apperr holds the process-level error sentinels. Provider failures
// never surface as errors; they become failure records in package services.
// Callers wrap these with fmt.Errorf("%w: ...") and test with errors.Is.
package apperr
