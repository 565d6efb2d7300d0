package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level   string // debug, info, warn, error
	Format  string // console or json
	Output  io.Writer
	Service string
	Version string
}

// NewLogger builds a zap logger writing to stderr unless Output is set.
func NewLogger(config LoggerConfig) (*zap.Logger, error) {
	level, err := parseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "timestamp"

	var encoder zapcore.Encoder
	switch strings.ToLower(config.Format) {
	case "", "console":
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format %q", config.Format)
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	logger := zap.New(core)

	if config.Service != "" {
		logger = logger.With(zap.String("service", config.Service))
	}
	if config.Version != "" {
		logger = logger.With(zap.String("version", config.Version))
	}

	return logger, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

type runIDKey struct{}

// WithRunID tags ctx with a fresh run id and returns it.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, runIDKey{}, id), id
}

// RunID returns the run id stored by WithRunID, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// FromContext returns logger annotated with the run id in ctx.
func FromContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if id := RunID(ctx); id != "" {
		return logger.With(zap.String("run_id", id))
	}
	return logger
}
