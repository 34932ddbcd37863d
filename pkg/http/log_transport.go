package http

import (
	"net/http"
	"regexp"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// context keys for attaching request metadata
type payloadContextKey struct{}
type bodySizeContextKey struct{}

// Telegram file links carry the bot token as a path segment: /file/bot<token>/...
var botTokenSegment = regexp.MustCompile(`/bot[^/]+/`)

// RedactURL masks bot tokens embedded in a URL path
func RedactURL(raw string) string {
	return botTokenSegment.ReplaceAllString(raw, "/bot<redacted>/")
}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", RedactURL(req.URL.String())),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	}

	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		fields = append(fields, zap.ByteString("payload", payload))
	}
	if size, ok := ctx.Value(bodySizeContextKey{}).(int); ok {
		fields = append(fields, zap.Int("body_size", size))
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed",
			append(fields, zap.Error(err), zap.Duration("duration", time.Since(start)))...,
		)
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response",
		append(fields, zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))...,
	)

	return resp, nil
}

// WithRequestLogging wraps the HTTP transport with debug logging of each outbound call.
// Authorization headers are never logged.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
