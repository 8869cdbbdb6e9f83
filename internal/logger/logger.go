package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

// Init builds the global logger. Callers pass alternating key/value pairs
// after the message.
func Init() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	sugar = l.Sugar()
}

// Sync flushes buffered entries. Call before exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

// SetLogger swaps the backing logger. Used by tests to capture output.
func SetLogger(l *zap.Logger) {
	sugar = l.Sugar()
}

func ensure() *zap.SugaredLogger {
	if sugar == nil {
		Init()
	}
	return sugar
}

func Info(msg string, keysAndValues ...interface{}) {
	ensure().Infow(msg, keysAndValues...)
}

func Infof(format string, v ...interface{}) {
	ensure().Infof(format, v...)
}

func Error(msg string, keysAndValues ...interface{}) {
	ensure().Errorw(msg, keysAndValues...)
}

func Errorf(format string, v ...interface{}) {
	ensure().Errorf(format, v...)
}

func Debug(msg string, keysAndValues ...interface{}) {
	ensure().Debugw(msg, keysAndValues...)
}

func Debugf(format string, v ...interface{}) {
	ensure().Debugf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	ensure().Fatalf(format, v...)
}
