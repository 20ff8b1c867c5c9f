// Package manifest models an npm package manifest as an ordered JSON object.
//
// Only the name and files fields are interpreted. Every other member is
// kept as raw JSON in its original position so that a rewrite preserves
// fields this tool knows nothing about.
package manifest
