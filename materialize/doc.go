// Package materialize writes a declarative configuration bundle into a
// directory tree and drives external tools to finalize it.
//
// A Plan is an ordered list of steps: file writes (FileSpec), blind appends
// (AppendSpec), idempotent directive merges (MergeSpec) and external
// commands (CommandStep). A Materializer executes a plan strictly in order
// against a root directory and stops at the first failing step, leaving
// whatever was already written in place.
package materialize
