// Package tasks tracks per-job completion percentages in a shared
// last-value store and exposes them as polled subscription channels.
//
// The tracker is a liveness signal, not an audit log: there is no
// durability, no back-pressure, and no delivery guarantee beyond
// "the latest value wins".
package tasks
