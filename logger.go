package main

import (
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the console logger used for progress and diagnostics.
// Every line carries the run id so interleaved runs can be told apart.
func newLogger(w io.Writer, level string) (*zap.SugaredLogger, string) {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(config),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(loggerLevel(level)),
	)
	runID := uuid.NewString()
	return zap.New(core).Sugar().With("run_id", runID), runID
}

func newStderrLogger(level string) (*zap.SugaredLogger, string) {
	return newLogger(os.Stderr, level)
}

func loggerLevel(lvl string) zapcore.Level {
	switch lvl {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	}
	return zapcore.InfoLevel
}
