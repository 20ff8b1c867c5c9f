// Package config defines the settings of the manifest updater and provides
// helpers to load, validate and save them in YAML format.
//
// Defaults reproduce the release build layout: artifacts under "pkg",
// the manifest at "pkg/package.json" and the "mtml-parser" package name.
package config
