// Package ui renders command lifecycle events for humans: a shell-style
// "$ command" trace on the console before each child process starts, and
// structured log entries describing completions and failures.
package ui
