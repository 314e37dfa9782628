package logger

import (
	"context"
	"errors"
	"log"
	"os"
	"syscall"

	"github.com/spf13/viper"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

// RequestIDKey is the context key the request id middleware stores the id under.
const RequestIDKey contextKey = "requestID"

const environmentKey = "app.environment"

var (
	structuredLogger *zap.Logger
	sugaredLogger    *zap.SugaredLogger
)

func init() {
	New(getEnv())
}

func New(env string) {
	viper.Set(environmentKey, env)

	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.DebugLevel),
		Development: env != "prod",
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "message",
			LevelKey:       "level",
			TimeKey:        "time",
			NameKey:        "logger",
			CallerKey:      "file",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if env == "prod" {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if env == "local" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := zapCfg.Build(zap.WithCaller(true), zap.AddCallerSkip(1))
	if err != nil {
		log.Fatal(err)
	}
	structuredLogger, sugaredLogger = l, l.Sugar()
}

// Context returns a logger carrying the request id found in ctx, if any.
func Context(ctx context.Context) *zap.SugaredLogger {
	l := sugaredLogger.WithOptions(zap.AddCallerSkip(-1))
	if ctx == nil {
		return l
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		l = l.With(zap.String("requestID", requestID))
	}
	return l
}

func Structure() *zap.Logger {
	return structuredLogger
}

func Info(args ...any) {
	local().Info(args...)
}

func Infof(template string, args ...any) {
	local().Infof(template, args...)
}

func Debugf(template string, args ...any) {
	sugaredLogger.Debugf(template, args...)
}

func Warn(args ...any) {
	local().Warn(args...)
}

func Warnf(template string, args ...any) {
	local().Warnf(template, args...)
}

func Error(args ...any) {
	sugaredLogger.Error(args...)
}

func Errorf(template string, args ...any) {
	sugaredLogger.Errorf(template, args...)
}

func Fatal(args ...any) {
	sugaredLogger.Fatal(args...)
}

func Fatalf(template string, args ...any) {
	sugaredLogger.Fatalf(template, args...)
}

// local drops the caller on console output, it is noise when running locally.
func local() *zap.SugaredLogger {
	if getEnv() == "local" {
		return sugaredLogger.WithOptions(zap.WithCaller(false), zap.AddCallerSkip(-1))
	}
	return sugaredLogger
}

func getEnv() string {
	if env := os.Getenv("APP_ENVIRONMENT"); len(env) > 0 {
		return env
	} else if env = viper.GetString(environmentKey); len(env) > 0 {
		return env
	}
	return "prod"
}

func Sync() {
	if err := sugaredLogger.Sync(); err != nil && !errors.Is(err, syscall.ENOTTY) && !errors.Is(err, syscall.EINVAL) {
		Error(err)
	}
}
