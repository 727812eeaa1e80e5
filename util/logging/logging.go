// Package logging builds the zap loggers used by the commands
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func level(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// New returns a console logger writing to stderr. Verbose enables debug output.
func New(verbose bool) (*zap.SugaredLogger, error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level(verbose)),
		Development:      verbose,
		Encoding:         "console",
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: building zap logger: %w", err)
	}
	return logger.Sugar(), nil
}

// NewWriter logs to an arbitrary writer, without timestamps
func NewWriter(writer io.Writer, verbose bool) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(writer), level(verbose))
	return zap.New(core).Sugar()
}

func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
