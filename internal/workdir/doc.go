// Package workdir provides a scoped change of the process working directory
// with guaranteed restoration, optional creation of the target directory, and
// an injectable controller so tests can fake the process-global state.
package workdir
