// Package session tracks per-client working sets of scratch files and
// reclaims them when a session goes idle or asks to be cleaned up.
//
// A session is created lazily on first use, refreshed by uploads,
// downloads and heartbeats, and destroyed either explicitly or by the
// periodic sweep once it has been idle longer than the timeout. All
// state is process-lifetime-scoped; nothing survives a restart.
package session
