// Package logging provides structured logging for git-rewrite.
//
// It is a thin wrapper over log/slog that selects a handler from
// configuration (level and output format) and exposes the usual leveled
// methods. Both the extraction and replay paths log through it; progress
// lines intended for humans go to stdout separately.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "text"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	logger.Info("extraction complete", "commits", n)
package logging
