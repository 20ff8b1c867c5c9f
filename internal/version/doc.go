// Package version exposes build metadata for pkg-manifest.
//
// Version, Commit and BuildTime are injected via -ldflags at build time and
// default to placeholders for local builds.
package version
