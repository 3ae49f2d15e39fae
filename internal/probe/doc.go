// Package probe provides readiness checks for the waitfor CLI.
//
// Each probe constructor returns a [waitfor.Check] that reports whether a
// target (an HTTP URL, a TCP address, or a command) is ready. The checks
// carry no polling logic of their own; retrying, deadlines and
// cancellation all belong to waitfor.Poll.
//
// This package is internal; its API may change without notice.
package probe
