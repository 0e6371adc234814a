// Package session persists open wizard sessions in SQLite so the CLI can walk
// through the steps across separate invocations.
//
// A session row holds the draft as JSON, the active step, and the last
// submission error. Rows exist only while a wizard is open: submission and
// discard delete them. The database lives at <data_dir>/sessions.db with WAL
// journaling; writes retry briefly on SQLITE_BUSY. There are no migrations, a
// schema version bump requires deleting the file.
package session
