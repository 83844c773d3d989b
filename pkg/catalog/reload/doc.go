// Package reload keeps a running process on the latest catalog file.
//
// A Reloader loads and validates the file and pushes the result to its
// targets (anything with an UpdateCatalog method, such as
// processing.Processor). Two triggers drive it:
//
//   - Watcher: fsnotify events on the file, debounced
//   - Scheduler: a robfig/cron schedule from catalog.reload_schedule
//
// An invalid file never replaces a valid catalog. The failure is logged and
// counted in catalog_reloads_total{outcome="error"}.
package reload
