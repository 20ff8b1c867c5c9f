// Package collector finds build artifacts below a root directory.
//
// It walks the tree in lexical order, keeps files whose extension is in
// the configured set and skips anything matched by an exclude pattern.
// Symbolic links are stat-ed: a dangling link aborts the walk and a link
// to a directory is left out. The first I/O error aborts the walk.
package collector
