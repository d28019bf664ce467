// Package startup loads environment configuration, probes the upload
// directory and external tools, and logs the startup banner and route
// table.
package startup
