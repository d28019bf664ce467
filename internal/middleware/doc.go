// Package middleware provides HTTP middleware for the media clipper
// service.
//
// It includes:
//   - Request logging with log-injection sanitization
//   - Prometheus request metrics with bounded label cardinality
//   - A permissive CORS policy for the cross-origin browser client
package middleware
