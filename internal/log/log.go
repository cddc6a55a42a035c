package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Conf holds logger configuration options.
type Conf struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	Output string // stdout or stderr
}

// SetDefaults returns the default configuration.
func SetDefaults() *Conf {
	return &Conf{
		Level:  "info",
		Format: "console",
		Output: "stdout",
	}
}

// Validate checks the configuration.
func (c *Conf) Validate() error {
	switch c.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}

	switch c.Output {
	case "", "stdout", "stderr":
	default:
		return fmt.Errorf("unknown log output %q", c.Output)
	}

	return nil
}

// New builds a sugared zap logger from conf.
func New(conf *Conf) (*zap.SugaredLogger, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	var w io.Writer = os.Stdout
	if conf.Output == "stderr" {
		w = os.Stderr
	}

	return newWithWriter(conf, zapcore.AddSync(w)), nil
}

func newWithWriter(conf *Conf, ws zapcore.WriteSyncer) *zap.SugaredLogger {
	core := zapcore.NewCore(getEncoder(conf.Format), ws, parseLogLevel(conf.Level))
	return zap.New(core, zap.AddCaller()).Sugar()
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func getEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()

	encoderConfig.TimeKey = "time"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = "caller"
	encoderConfig.MessageKey = "msg"
	encoderConfig.StacktraceKey = "stacktrace"
	encoderConfig.LineEnding = zapcore.DefaultLineEnding
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = customTimeEncoder
	encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	if format == "json" {
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// customTimeEncoder formats the time as 2006-01-02 15:04:05.
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

// parseLogLevel converts a string level to a zapcore.Level, case-insensitively.
// Unknown levels fall back to info.
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
