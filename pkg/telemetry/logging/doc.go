// Package logging provides structured logging on log/slog.
//
// # Overview
//
//   - JSON, text and console output formats
//   - Configurable log levels (debug, info, warn, error)
//   - Request IDs and trace IDs taken from the context automatically
//   - User text never reaches the log: attributes named prompt, response,
//     text or content are replaced by their length
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(&cfg.Telemetry.Logging))
//	if err != nil {
//		return err
//	}
//	logging.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "estimate computed", "key", key)  // includes request_id
//
// Components derive their logger with slog.Default().With("component", name).
package logging
