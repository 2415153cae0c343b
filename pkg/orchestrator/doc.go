// Package orchestrator wires the reader, renderer and compiler stages into
// a single batch pipeline, providing dependency injection friendly helpers
// for consumers that prefer a single entry point.
package orchestrator
