// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// Loggers are plain *slog.Logger values tagged with a "module" attribute.
// Output is routed automatically:
//   - to the systemd journal when journald is reachable
//   - to stdout when a terminal, pipe, socket, or file is connected
//   - to both when both are available
//
// # Usage
//
// Initialize once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"scheduler": "debug",
//			"api":       "warn",
//		},
//	})
//
// Then get a module logger:
//
//	logger := logging.GetLogger("indicator").With("slot", 2)
//	logger.Info("Indicator installed", "kind", "network")
//
// # Viewing Logs
//
//	journalctl -t statusled -f
//	journalctl -t statusled MODULE=indicator
//
// # Configuration
//
//	[logging]
//	level = "info"
//	format = "text"
//	scheduler = "debug"
package logging
