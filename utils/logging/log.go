// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*log)(nil)

type log struct {
	internalLogger *zap.Logger
}

// NewLogger returns a logger named [prefix] that writes to [w] at [level].
func NewLogger(prefix string, level Level, w io.Writer) Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapcore.Level(level),
	)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	if prefix != "" {
		logger = logger.Named(prefix)
	}
	return &log{internalLogger: logger}
}

// Default returns a logger writing to stdout at info level.
func Default(prefix string) Logger {
	return NewLogger(prefix, Info, os.Stdout)
}

func (l *log) Fatal(msg string, fields ...zap.Field) {
	l.internalLogger.Fatal(msg, fields...)
}

func (l *log) Error(msg string, fields ...zap.Field) {
	l.internalLogger.Error(msg, fields...)
}

func (l *log) Warn(msg string, fields ...zap.Field) {
	l.internalLogger.Warn(msg, fields...)
}

func (l *log) Info(msg string, fields ...zap.Field) {
	l.internalLogger.Info(msg, fields...)
}

func (l *log) Debug(msg string, fields ...zap.Field) {
	l.internalLogger.Debug(msg, fields...)
}

func (l *log) Stop() {
	_ = l.internalLogger.Sync()
}
