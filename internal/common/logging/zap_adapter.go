package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter implements Logger on top of zap.
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapLogger builds a console-encoded zap logger writing to cfg.Output.
func NewZapLogger(cfg LogConfig) (*ZapAdapter, error) {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		FunctionKey:    zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	out := zapcore.AddSync(os.Stdout)
	if cfg.Output != nil {
		out = zapcore.AddSync(cfg.Output)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, zapLevel(cfg.Level))
	l := zap.New(core)
	if cfg.Name != "" {
		l = l.Named(cfg.Name)
	}
	return &ZapAdapter{logger: l}, nil
}

func (z *ZapAdapter) Debug(msg string, fields ...Field) {
	z.logger.Debug(msg, toZap(fields)...)
}

func (z *ZapAdapter) Info(msg string, fields ...Field) {
	z.logger.Info(msg, toZap(fields)...)
}

func (z *ZapAdapter) Warn(msg string, fields ...Field) {
	z.logger.Warn(msg, toZap(fields)...)
}

func (z *ZapAdapter) Error(msg string, err error, fields ...Field) {
	zf := toZap(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	z.logger.Error(msg, zf...)
}

func (z *ZapAdapter) WithFields(fields ...Field) Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZapAdapter{logger: z.logger.With(toZap(fields)...)}
}

// WithContext attaches the request id carried by ctx, if any.
func (z *ZapAdapter) WithContext(ctx context.Context) Logger {
	id := RequestIDFromContext(ctx)
	if id == "" {
		return z
	}
	return &ZapAdapter{logger: z.logger.With(zap.String("request_id", id))}
}

// Sync flushes buffered entries.
func (z *ZapAdapter) Sync() error {
	return z.logger.Sync()
}

func zapLevel(l LogLevel) zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZap(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}
