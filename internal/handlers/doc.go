// Package handlers contains the HTTP handlers for the media clipper API:
// uploads, URL downloads, trim and frame-extraction jobs, task progress
// streaming, session lifecycle, and the health/version endpoints.
package handlers
