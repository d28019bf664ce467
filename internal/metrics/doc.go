// Package metrics defines the Prometheus metric families exported by the
// media clipper service: HTTP traffic, transcoding jobs, URL downloads,
// session lifecycle, and progress-stream subscriptions.
//
// All metrics are registered with the default registry via promauto and
// exposed on the /metrics endpoint (or a dedicated metrics port).
package metrics
