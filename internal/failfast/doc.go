// Package failfast implements the escalation policy for failing build steps:
// classify a failure into an explicit termination decision, then terminate
// the hosting process with the child's exact exit code through an injectable
// terminator so tests can assert on the decision without exiting.
package failfast
