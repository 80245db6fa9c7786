package logger

import (
	"fmt"
	"os"

	"github.com/breez/feechart/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Logs are written to the configured file,
// or to stderr if no file is configured.
func New(conf *config.LogConfig) (*zap.Logger, error) {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	atom := zap.NewAtomicLevel()
	if conf.Level != "" {
		if err := atom.UnmarshalText([]byte(conf.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", conf.Level, err)
		}
	}

	var encoder zapcore.Encoder
	switch conf.Format {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(cfg)
	case "console":
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", conf.Format)
	}

	writeSyncer := zapcore.Lock(os.Stderr)
	if conf.File != "" {
		file, err := os.OpenFile(conf.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", conf.File, err)
		}
		writeSyncer = zapcore.AddSync(file)
	}

	core := zapcore.NewCore(encoder, writeSyncer, atom)
	return zap.New(core, zap.AddCaller()), nil
}
