// Package ports defines the interfaces that connect the restart workflow to
// its infrastructure.
//
// # Port Interfaces
//
//   - [JournalRepository]: persists the record of applied edits
//
// pkg/restart depends only on these interfaces; internal/journal provides
// the file-backed implementation, and tests substitute in-memory ones.
package ports
