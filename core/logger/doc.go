// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production).
//
// # Scoped Loggers
//
// A build run is tagged with a run id (WithRun) and every artifact built during the run
// logs through a child logger tagged with the artifact name (WithArtifact), so that the
// lines of one artifact can be filtered out of a full build.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	l := logger.WithArtifact(logger.WithRun(log, runID), "communes")
//	l.Error("Artifact failed", zap.Error(err))
package logger
