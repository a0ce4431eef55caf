// Package logging provides the structured, subsystem-tagged logger used across
// testplanner.
//
// It is a thin layer over log/slog. Every entry carries a "subsystem" attribute
// and, for errors, an "error" attribute, so output can be filtered per
// component (Platform, Discovery, Scheduler, TestPlan, HTTPServer, ...).
//
// # Usage
//
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stderr)
//
//	logging.Info("Bootstrap", "Application starting up")
//	logging.Debug("Platform", "Polling execution record %s", requestID)
//	logging.Warn("Scheduler", "No target component for test %s", testID)
//	logging.Error("TestPlan", err, "Discovery failed for plan %s", planID)
//
// # Output Formats
//
//   - FormatText: slog text handler (default)
//   - FormatJSON: slog JSON handler, for log shippers
//
// The logger is safe for concurrent use. Calling Init again swaps the handler.
package logging
