package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	levelColors = map[zapcore.Level]string{
		zapcore.DebugLevel: "\033[36m",
		zapcore.InfoLevel:  "\033[32m",
		zapcore.WarnLevel:  "\033[33m",
		zapcore.ErrorLevel: "\033[31m",
		zapcore.FatalLevel: "\033[35m",
	}
	resetColor = "\033[0m"

	shortLevels = map[zapcore.Level]string{
		zapcore.DebugLevel: "DBG",
		zapcore.InfoLevel:  "INF",
		zapcore.WarnLevel:  "WRN",
		zapcore.ErrorLevel: "ERR",
		zapcore.FatalLevel: "FAT",
	}
)

// New builds the application logger. Logs go to stderr so they never mix
// with the console dialogue on stdout.
func New(level, format string) (*zap.Logger, error) {
	return NewWithWriter(level, format, os.Stderr)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(format) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig(false))
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(encoderConfig(isTerminal(w)))
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)
	return zap.New(core, zap.Fields(zap.String("service", "recipehelper"))), nil
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    plainLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if color {
		cfg.EncodeLevel = colorLevelEncoder
		cfg.EncodeTime = clockTimeEncoder
	}
	return cfg
}

func clockTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}

func plainLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(shortLevel(l))
}

func colorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(levelColors[l] + shortLevel(l) + resetColor)
}

func shortLevel(l zapcore.Level) string {
	if s, ok := shortLevels[l]; ok {
		return s
	}
	return strings.ToUpper(l.String())
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
