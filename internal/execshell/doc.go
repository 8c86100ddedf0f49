// Package execshell provides structured helpers for invoking external tools
// from continuous-integration build scripts.
//
// It wraps os/exec with logging and lifecycle events via ShellExecutor,
// exposes OSCommandRunner for default process execution with either live
// streaming or captured output, and defines the Executable wrapper that binds
// a resolved program path to repeatable invocations.
package execshell
