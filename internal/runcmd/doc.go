// Package runcmd implements the run command: resolve a program name, execute
// it synchronously with logged lifecycle events, and either propagate the
// child's failure or terminate the process with the child's exit code.
package runcmd
