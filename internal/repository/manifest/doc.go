// Package manifest reads and writes the package manifest on disk.
//
// FileRepository loads the manifest into a domain Document and overwrites
// the file in place on Save. Writes are not atomic.
package manifest
