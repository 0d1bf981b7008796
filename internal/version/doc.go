// Package version reports which build of vantage is running. Release builds
// set the variables with -ldflags; other builds fall back to the module and
// VCS metadata recorded by the Go toolchain.
package version
