// Package queue persists labeling work items in SQLite and owns every
// state transition between pending, reserved, and done.
//
// The Store treats each transition as a single conditional SQL statement so
// concurrent callers never observe a read-modify-write race: reserving the
// next item, committing labels against a reservation token, and releasing a
// reservation are all atomic against the database. Expired reservations are
// never swept by a background task; they are simply eligible again the next
// time something asks for work.
//
// Treat this package as the single source of truth for queue semantics; when
// you add new statuses or columns, update schema.sql and bump schemaVersion.
package queue
