// Package tasks runs the long-lived and fan-out work behind the CLI and TUI with
// non-blocking progress reporting.
//
// # Recipe Fetching
//
// [FetchRecipes] looks up the full recipe of every favorite with a small worker pool. Failures are
// collected per drink instead of aborting the batch, so an export can still be written with
// whatever was retrieved.
//
// # Database Watching
//
// [Watcher] follows the SQLite file (and its -wal/-journal companions) with fsnotify and emits
// a debounced [ProgressUpdate] when another process writes, so a running TUI can reload the
// session. When fsnotify cannot be set up it falls back to polling the file's modification time.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates. Updates use select with
// default, so a slow or absent reader never stalls the work.
package tasks
