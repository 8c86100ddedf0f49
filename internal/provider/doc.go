// Package provider detects which continuous-integration service, if any, the
// current process is executing on, by inspecting provider-defined environment
// variables through an injectable lookup.
package provider
