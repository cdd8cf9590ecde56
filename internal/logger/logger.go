// Package logger wraps a process-wide zap sugared logger.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop().Sugar()

// Init configures JSON logging to the given writers (stdout when none).
// Production logs at info and above, everything else at debug.
func Init(env string, writers ...io.Writer) {
	if len(writers) == 0 {
		writers = []io.Writer{os.Stdout}
	}

	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		TimeKey:      "time",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		CallerKey:    "caller",
		EncodeCaller: zapcore.ShortCallerEncoder,
	})

	level := zapcore.DebugLevel
	if env == "production" {
		level = zapcore.InfoLevel
	}

	cores := make([]zapcore.Core, 0, len(writers))
	for _, w := range writers {
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), level))
	}
	log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// L returns the underlying logger, e.g. for With(...) scoped loggers.
func L() *zap.SugaredLogger {
	return log
}

func Debugf(format string, args ...any) { log.Debugf(format, args...) }

func Infof(format string, args ...any) { log.Infof(format, args...) }

func Warnf(format string, args ...any) { log.Warnf(format, args...) }

func Errorf(format string, args ...any) { log.Errorf(format, args...) }

// Infow logs a message with key/value pairs.
func Infow(msg string, keysAndValues ...any) { log.Infow(msg, keysAndValues...) }

func Sync() {
	_ = log.Sync()
}
