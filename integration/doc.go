//go:build integration

// Package integration provides end-to-end tests for the blobbuf library.
//
// These tests exercise full pipelines: assembling messages across blobs,
// relaying data between chunk geometries, and moving blob contents through
// real files and HTTP round trips.
// Run with: go test -tags=integration ./integration/...
package integration
