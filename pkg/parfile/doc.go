// Package parfile edits FLASH-style runtime parameter files in place.
//
// A parameter file is line-oriented text with assignments of the form
//
//	checkpointFileNumber = 12
//	restart              = .false.
//	basenm               = "run1_"   # comments start with '#'
//
// The package never parses the file into a tree. It substitutes only the
// value token that follows a targeted key and '=', so comments, blank lines,
// alignment and unrelated keys survive byte for byte.
//
// Every edit is one unit: take the advisory lock, copy the file to
// <name>.bak_<YYYYMMDD_HHMM>, substitute, then replace the file through a
// temporary sibling and a rename. If the copy cannot be made the file is not
// touched.
//
// A key that appears on several live lines is rewritten on all of them.
// Callers that need single-occurrence semantics must check the file first,
// for instance with [Count].
package parfile
