// Package lookup resolves program names to executable file paths by probing
// the search-path directories, with injectable filesystem and environment
// access so resolution is testable without touching the host.
package lookup
