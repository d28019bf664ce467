// Package streaming implements the server-sent-events wire format used
// by the progress endpoint: one JSON data frame per sampled snapshot,
// flushed immediately.
package streaming
