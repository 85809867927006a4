// Package state persists migration progress and the arming sentinel under a state
// directory.
//
// The progress marker holds a single decimal line naming the next migration index to
// run; its absence means the start of the registry. The arming sentinel is a
// zero-length file whose presence permits the next migration run.
package state
