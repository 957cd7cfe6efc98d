package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	atomicLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger      = noopLogger()
)

func noopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// initLogger replaces the no-op logger with a console logger on stderr.
// Stdout is reserved for rendered output.
func initLogger(level string) error {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return err
	}
	atomicLevel.SetLevel(lvl)

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		atomicLevel,
	)
	logger = zap.New(core).Sugar()
	return nil
}

func parseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "", "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.WarnLevel, fmt.Errorf("unknown log level '%s'", level)
	}
}

func syncLogger() {
	_ = logger.Sync()
}
