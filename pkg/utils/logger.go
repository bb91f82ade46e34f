package utils

import (
	"fmt"

	"go.uber.org/zap"
)

// NewSugaredLogger creates a sugared logger based on the verbose flag.
// Verbose selects the human-readable development encoder; otherwise the
// JSON production encoder is used.
func NewSugaredLogger(verbose bool) (*zap.SugaredLogger, error) {
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to create development logger: %w", err)
		}
		return l.Sugar(), nil
	}

	l, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create production logger: %w", err)
	}
	return l.Sugar(), nil
}

// SyncLogger flushes buffered log entries. Best effort; sync errors on
// stderr sinks are expected and ignored.
func SyncLogger(log *zap.SugaredLogger) {
	_ = log.Desugar().Sync()
}
