// Package fsops provides the small set of filesystem helpers build scripts
// lean on: recursive directory creation and recursive removal, both idempotent
// and both expressed over an injectable filesystem.
package fsops
