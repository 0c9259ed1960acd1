// Package logging provides structured logging for the docxval CLI using slog.
//
// Logs are diagnostics about the run (which file is being opened, how many
// parts were decoded, why a target failed) and always go to stderr or a log
// file. The validation report itself is written to stdout by the reporter and
// never goes through this package.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(1),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("validating", "path", path)
//
// Loggers travel through a run on the context:
//
//	ctx = logging.NewContext(ctx, logger)
//	logging.FromContext(ctx).Debug("decoded part", "part", name)
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework.
package logging
