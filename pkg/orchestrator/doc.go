// Package orchestrator wires the loader → synchronizer → render tree →
// preview pipeline, providing dependency injection friendly helpers for
// consumers that prefer a single entry point.
package orchestrator
