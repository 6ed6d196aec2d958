// Package domain contains the core value types and errors for flashrestart.
//
// This package has no dependencies on infrastructure concerns (file system,
// logging) and contains only the rules that decide where a run restarts.
//
// # Entities
//
//   - [CloseEvent]: one plot or checkpoint file-close record from a run log
//   - [RestartPoint]: the checkpoint to restart from and the next plot number
//   - [JournalEntry]: one recorded parameter-file edit
//
// # Design Principles
//
// Domain values are:
//   - Immutable after construction
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
