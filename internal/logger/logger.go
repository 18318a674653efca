// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger provides the leveled logger shared by the import pipeline.
package logger

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface used across packages.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	// WithPrefix returns a Logger that tags every entry with name.
	WithPrefix(name string) Logger
	// Sync flushes buffered entries.
	Sync() error
}

// Nop discards everything.
var Nop Logger = &zapLogger{s: zap.NewNop().Sugar()}

type zapLogger struct {
	s *zap.SugaredLogger
}

// New returns a console logger writing to w. Verbose enables debug entries.
func New(w io.Writer, verbose bool) Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.EncodeCaller = nil
	enc.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return &zapLogger{s: zap.New(core).Sugar()}
}

func (l *zapLogger) Debugf(format string, v ...interface{}) { l.s.Debugf(format, v...) }
func (l *zapLogger) Infof(format string, v ...interface{})  { l.s.Infof(format, v...) }
func (l *zapLogger) Warnf(format string, v ...interface{})  { l.s.Warnf(format, v...) }
func (l *zapLogger) Errorf(format string, v ...interface{}) { l.s.Errorf(format, v...) }

func (l *zapLogger) WithPrefix(name string) Logger {
	return &zapLogger{s: l.s.Named(name)}
}

func (l *zapLogger) Sync() error { return l.s.Sync() }
