package logger

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey stores the request identifier on a context.Context.
type RequestIDKey struct{}

var (
	shared     *zap.Logger
	sharedOnce sync.Once
)

// New returns the process-wide zap logger. Production gets the JSON
// encoder; everything else gets the colored console encoder for local
// development.
func New(env string) (*zap.Logger, error) {
	var err error
	sharedOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		shared, err = cfg.Build()
	})

	return shared, err
}

// WithContext returns the shared logger annotated with the request ID
// carried by ctx, when one is present.
func WithContext(ctx context.Context) *zap.Logger {
	if shared == nil {
		fallback, _ := zap.NewDevelopment()
		return fallback
	}
	if ctx == nil {
		return shared
	}

	id, _ := ctx.Value(RequestIDKey{}).(string)
	if id == "" {
		return shared
	}
	return shared.With(zap.String("request_id", id))
}

var emailMask = regexp.MustCompile(`^([^@]{1,3})[^@]*(@.+)$`)

// MaskEmail hides most of the local part of an address before it reaches
// the logs: john.doe@example.com becomes joh***@example.com.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	if m := emailMask.FindStringSubmatch(email); len(m) == 3 {
		return m[1] + "***" + m[2]
	}

	if _, domain, found := strings.Cut(email, "@"); found {
		return "***@" + domain
	}

	return "***"
}

// MaskIP keeps the first two IPv4 octets or the first four IPv6 groups and
// hides the rest.
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	if strings.Contains(ip, ".") {
		parts := strings.Split(ip, ".")
		if len(parts) == 4 {
			return parts[0] + "." + parts[1] + ".*.*"
		}
	}

	if strings.Contains(ip, ":") {
		parts := strings.Split(ip, ":")
		if len(parts) >= 4 {
			return strings.Join(parts[:4], ":") + ":*:*:*:*"
		}
	}

	return "***"
}
