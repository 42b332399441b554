// Package daemon coordinates the long-running Marquee process.
//
// It wires configuration, the sync pipeline, the calendar refresher, and the
// settings, playlist, and history stores into a single lifecycle with
// flock-based locking to prevent multiple instances. The daemon drives the
// periodic loops and serves the HTTP API the display client and the CLI talk
// to, including the static media route backed by the local cache.
//
// Keep orchestration logic here: the sync sequence itself lives in the sync
// package while the daemon focuses on startup, shutdown, and scheduling.
package daemon
