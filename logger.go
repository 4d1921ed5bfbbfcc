package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "spread"

// levelEnabler maps a configured level to the lowest zap level it lets through.
// "none" and unknown values disable the output.
func levelEnabler(level string, below zapcore.Level) (zapcore.LevelEnabler, bool) {
	var lowest zapcore.Level
	switch level {
	case "debug":
		lowest = zapcore.DebugLevel
	case "normal":
		lowest = zapcore.InfoLevel
	default:
		return nil, false
	}
	return zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lowest <= lvl && lvl < below
	}), true
}

// NewLogger builds the program logger: info and debug go to stdout, errors to
// stderr, and everything at the file level to an optional log file.
// The returned closer releases the file.
func NewLogger(conf LoggingConfig) (*zap.Logger, func() error, error) {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(ec)

	cores := []zapcore.Core{}
	if lp, ok := levelEnabler(conf.Level, zapcore.ErrorLevel); ok {
		cores = append(cores,
			zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), lp),
			zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr),
				zap.LevelEnablerFunc(func(lvl zapcore.Level) bool { return lvl >= zapcore.ErrorLevel })))
	}

	closer := func() error { return nil }
	if conf.File != "" {
		if enabler, ok := levelEnabler(conf.FileLevel, zapcore.FatalLevel+1); ok {
			if err := os.MkdirAll(filepath.Dir(conf.File), 0755); err != nil {
				return nil, nil, fmt.Errorf("unable to create log directory for %s: %w", conf.File, err)
			}
			f, err := os.OpenFile(conf.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return nil, nil, fmt.Errorf("unable to access file log destination (%s): %w", conf.File, err)
			}
			fileEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
			cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.Lock(f), enabler))
			closer = f.Close
		}
	}

	if len(cores) == 0 {
		return zap.NewNop(), closer, nil
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(appName), closer, nil
}
