// internal/logger/logger.go
//
// Structured logger (Zap + Lumberjack).
//
// Context
// -------
// envgen talks to humans through exactly one line on stdout or stderr, so
// diagnostics go to a console core on stderr that stays quiet at the
// default `warn` level.  When a log directory is configured, the same
// events are also written as JSON to `<dir>/envgen.log`; rotation,
// compression, and retention are handled by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(opts.Log, os.Stderr)
//	if err != nil { … }
//	log.Debugw("settings loaded", "file", path)
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AdeptTravel/envgen/internal/config"
)

// FileName is the log file created inside config.Log.Dir.
const FileName = "envgen.log"

// New returns a *zap.SugaredLogger writing console lines to console and,
// when cfg.Dir is set, JSON lines to a rotating file.  The logger is
// installed as the process-wide default via zap.ReplaceGlobals.
func New(cfg config.Log, console io.Writer) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(console),
			level,
		),
	}
	errOut := zapcore.AddSync(console)

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, err
		}
		fileSink := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, FileName),
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(fileSink),
			level,
		))
		errOut = zapcore.AddSync(fileSink)
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(errOut),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	z.Debugw("logger online", "level", level.String(), "dir", cfg.Dir)
	return z, nil
}
