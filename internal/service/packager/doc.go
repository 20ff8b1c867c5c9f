// Package packager rewrites the package manifest of a build output.
//
// It collects the artifacts under the root, sets the manifest's name and
// files fields and writes the manifest back in place. All other manifest
// members are left as they were.
package packager
