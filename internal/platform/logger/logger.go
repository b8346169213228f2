package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap SugaredLogger that scrubs key/value pairs before they are written.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	redact        bool
	hashSalt      string
}

// Options tune a Logger beyond its mode. The zero value keeps redaction on.
type Options struct {
	Level          string
	DisableRedact  bool
	IdentifierSalt string
}

type action int

const (
	keep action = iota
	redact
	hash
	mask
)

// keyRules map a lower-cased key fragment to what happens with its value.
// The first matching rule wins.
var keyRules = []struct {
	fragment string
	suffix   bool
	act      action
}{
	{fragment: "token", act: redact},
	{fragment: "authorization", act: redact},
	{fragment: "password", act: redact},
	{fragment: "secret", act: redact},
	{fragment: "dsn", act: redact},
	{fragment: "subject", suffix: true, act: hash},
	{fragment: "client_ip", act: hash},
	// free text of medical records and treatments
	{fragment: "observation", suffix: true, act: mask},
	{fragment: "traitement", suffix: true, act: mask},
}

func New(mode string) (*Logger, error) {
	return NewWithOptions(mode, Options{})
}

func NewWithOptions(mode string, opts Options) (*Logger, error) {
	l := &Logger{redact: !opts.DisableRedact, hashSalt: strings.TrimSpace(opts.IdentifierSalt)}

	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test", "nop":
		l.SugaredLogger = zap.NewNop().Sugar()
		return l, nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	if lvl := strings.TrimSpace(opts.Level); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", lvl, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	l.SugaredLogger = zl.Sugar()
	return l, nil
}

func (l *Logger) Sync() { _ = l.SugaredLogger.Sync() }

func (l *Logger) Debug(msg string, kv ...interface{}) { l.SugaredLogger.Debugw(msg, l.sanitizeKVs(kv)...) }
func (l *Logger) Info(msg string, kv ...interface{}) { l.SugaredLogger.Infow(msg, l.sanitizeKVs(kv)...) }
func (l *Logger) Warn(msg string, kv ...interface{}) { l.SugaredLogger.Warnw(msg, l.sanitizeKVs(kv)...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.SugaredLogger.Errorw(msg, l.sanitizeKVs(kv)...) }

// With returns a child logger carrying kv on every entry.
func (l *Logger) With(kv ...interface{}) *Logger {
	child := *l
	child.SugaredLogger = l.SugaredLogger.With(l.sanitizeKVs(kv)...)
	return &child
}

func (l *Logger) sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 || !l.redact {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		key := toString(kv[i])
		if i+1 == len(kv) {
			out = append(out, key)
			break
		}
		out = append(out, key, l.scrub(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	return out
}

func (l *Logger) scrub(key string, val interface{}) interface{} {
	switch ruleFor(key) {
	case redact:
		return "[REDACTED]"
	case hash:
		return l.hashValue(val)
	case mask:
		return fmt.Sprintf("[%d chars]", len(toString(val)))
	}
	if s, ok := val.(string); ok && looksLikeJWT(s) {
		return "[REDACTED]"
	}
	return val
}

func ruleFor(key string) action {
	for _, r := range keyRules {
		if r.suffix {
			if key == r.fragment || strings.HasSuffix(key, "_"+r.fragment) {
				return r.act
			}
			continue
		}
		if strings.Contains(key, r.fragment) {
			return r.act
		}
	}
	return keep
}

func (l *Logger) hashValue(val interface{}) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(l.hashSalt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
