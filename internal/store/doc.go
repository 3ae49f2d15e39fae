// Package store collects the outcomes of concurrent multi-target waits.
//
// The waitfor CLI runs one poll per configured target on its own
// goroutine; the store is the thread-safe meeting point where their
// results land before the summary is printed.
//
// This package is internal; its API may change without notice.
package store
