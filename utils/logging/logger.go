// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"go.uber.org/zap"
)

// Logger defines the interface that is used to keep a record of all events
// that happen to the program.
type Logger interface {
	// Fatal that the program should halt
	Fatal(msg string, fields ...zap.Field)
	// Error that the program can still recover from
	Error(msg string, fields ...zap.Field)
	// Warn about unexpected but non-fatal conditions
	Warn(msg string, fields ...zap.Field)
	// Info about ordinary operation
	Info(msg string, fields ...zap.Field)
	// Debug information useful only while diagnosing a problem
	Debug(msg string, fields ...zap.Field)

	// Stop flushes and releases the logger's resources
	Stop()
}
