package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	sugar *zap.SugaredLogger
}

func NewLogger(level int) *defaultLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(level))
	cfg.Sampling = nil

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	return &defaultLogger{sugar: l.Sugar()}
}

// NewNopLogger discards everything, it is used by tests.
func NewNopLogger() *defaultLogger {
	return &defaultLogger{sugar: zap.NewNop().Sugar()}
}

// ParseLevel converts the level name used in config files to a level value.
// Unknown names fall back to INFO.
func ParseLevel(s string) int {
	switch s {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "silence":
		return SILENCE
	}

	return INFO
}

func toZapLevel(level int) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARNING:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	}

	return zapcore.FatalLevel
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	l.sugar.Debugf(msg, a...)
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	l.sugar.Infof(msg, a...)
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	l.sugar.Warnf(msg, a...)
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	l.sugar.Errorf(msg, a...)
}

func (l *defaultLogger) Sync() error {
	return l.sugar.Sync()
}
