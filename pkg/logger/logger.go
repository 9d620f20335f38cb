package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. format is "json" or "console".
func New(level, format string) (*zap.Logger, error) {
	var loggerConfig zap.Config
	if format == "console" {
		loggerConfig = zap.NewDevelopmentConfig()
	} else {
		loggerConfig = zap.NewProductionConfig()
	}
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	loggerConfig.Level = zap.NewAtomicLevelAt(lvl)

	return loggerConfig.Build()
}

// Must is New for process entrypoints.
func Must(level, format string) *zap.Logger {
	logger, err := New(level, format)
	if nil != err {
		panic(err)
	}
	return logger
}
