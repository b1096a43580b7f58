// Package database provides SQLite-based run history for wordhist.
//
// History is opt-in: a run is stored only when requested (scan --save).
// Each stored run keeps its full report as JSON next to the columns used
// for listing and for finding comparable runs (root and profile).
//
// The database is a single file, wordhist.db, opened through the CGO-free
// modernc.org/sqlite driver.
package database
