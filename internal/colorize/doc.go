// Package colorize renders ANSI-colored terminal output for CI build logs:
// generic color/style formatting plus the stage banner used to make build
// phases easy to find in long logs.
package colorize
