// Package logging builds the zap logger used by the tincture commands.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iw2rmb/tincture/internal/config"
)

// Options select the outputs of a logger.
type Options struct {
	// Verbose forces the debug level.
	Verbose bool
	// Console receives JSON log lines, typically stderr. Nil disables
	// console output; the terminal editor passes nil.
	Console io.Writer
}

// New returns a logger writing to the configured file and, when set, to
// opts.Console. With neither output it returns a no-op logger. The caller
// syncs the logger before exit.
func New(cfg config.LoggingConfig, opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(rotator), level))
	}
	if opts.Console != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(zapcore.AddSync(opts.Console)), level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
