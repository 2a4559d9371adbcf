// Package pathtrace runs the host's path-tracing utility against a
// validated target and returns its raw output.
package pathtrace

// Version is the release version, overridden at build time via -ldflags.
var Version = "v0.1.0-dev"
