// Package logger builds the zap loggers used across guru.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select the output format, level and destination.
type Options struct {
	JSON  bool
	Level string
	// Out receives the log lines. Nil means stderr, keeping stdout free
	// for command output.
	Out zapcore.WriteSyncer
}

func (o Options) out() zapcore.WriteSyncer {
	if o.Out == nil {
		return os.Stderr
	}
	return o.Out
}

// New returns a sugared logger: JSON lines with zap's production encoder,
// or a colored console encoder.
func New(opts Options) (*zap.SugaredLogger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if opts.JSON {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(opts.out()), level)
	return zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr))).Sugar(), nil
}

// Nop returns a logger that discards everything. Library constructors fall
// back to it when no logger is injected.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zap.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zap.InfoLevel, err
	}
	return level, nil
}
