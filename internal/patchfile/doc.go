// Package patchfile rewrites files in place with regular-expression filters,
// keeping a backup of the original alongside, and renders unified diffs
// between two files so build scripts can report exactly what changed.
package patchfile
