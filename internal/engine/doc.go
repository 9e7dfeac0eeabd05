// Package engine runs batches of agent tasks against their resolved
// backends. It offers a sequential strategy with a fixed inter-task pause
// and a concurrent strategy that preserves input order in the output, and
// it enforces per-task timeouts by racing each backend call against a timer.
package engine
