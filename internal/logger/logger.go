package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FieldService     = "service"
	FieldRole        = "role_template"
	FieldMatchScore  = "match_score"
	FieldKeywords    = "keywords"
	FieldDescription = "job_description"

	serviceName = "resumatch"
	// snippetLimit caps free text copied into log lines.
	snippetLimit = 80
)

// New builds the process logger. Records at warn and above go to stderr,
// everything else to stdout.
func New(json bool, debug bool) (*zap.Logger, error) {
	return build(json, debug, zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr)), nil
}

func build(json, debug bool, out, errOut zapcore.WriteSyncer) *zap.Logger {
	minLevel := zapcore.InfoLevel
	if debug {
		minLevel = zapcore.DebugLevel
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		CallerKey:      "caller",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minLevel && l < zapcore.WarnLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minLevel && l >= zapcore.WarnLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, out, low),
		zapcore.NewCore(enc.Clone(), errOut, high),
	)

	opts := []zap.Option{
		zap.AddCaller(),
		zap.Fields(zap.String(FieldService, serviceName)),
	}
	if debug {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zap.New(core, opts...)
}

// AnalysisFields describes one finished analysis. An empty role is omitted.
func AnalysisFields(role, jobDescription string, score float64, keywords int) []zap.Field {
	fields := make([]zap.Field, 0, 4)
	if role = strings.TrimSpace(role); role != "" {
		fields = append(fields, zap.String(FieldRole, role))
	}
	return append(fields,
		Snippet(FieldDescription, jobDescription),
		zap.Float64(FieldMatchScore, score),
		zap.Int(FieldKeywords, keywords),
	)
}

// Snippet logs a shortened, single-line copy of free text.
func Snippet(key, text string) zap.Field {
	return zap.String(key, Truncate(strings.Join(strings.Fields(text), " "), snippetLimit))
}

// Truncate shortens s to limit runes, appending an ellipsis when it cut
// something.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
