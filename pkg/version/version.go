// Package version exposes the build version of gv.
package version

// Version is overridden at build time via -ldflags "-X ...version.Version=v1.2.3".
var Version = "v0.1.0"
