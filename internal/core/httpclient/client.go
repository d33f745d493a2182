package httpclient

import (
	"net/http"
	"time"

	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/core/proxy"

	"go.uber.org/zap"
)

// UserAgent is sent on every outbound request.
const UserAgent = "courier-bridge/1.0"

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Component names the caller in the log lines (e.g. "courier", "woocommerce").
	Component string
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", UserAgent)
	}

	fields := []zap.Field{
		zap.String("component", lrt.Component),
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
	}
	if action := req.Header.Get("SOAPAction"); action != "" {
		fields = append(fields, zap.String("soap_action", action))
	}

	logger.Get().Debug("HTTP Request Started", fields...)

	resp, err := lrt.Proxied.RoundTrip(req)

	fields = append(fields, zap.Duration("duration", time.Since(start)))

	if err != nil {
		logger.Get().Error("HTTP Request Failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed", append(fields, zap.Int("status_code", resp.StatusCode))...)

	return resp, nil
}

// Option customizes the client built by NewClient.
type Option func(*LoggingRoundTripper)

// WithProxy routes requests through the configured upstream proxy.
func WithProxy(settings proxy.Settings) Option {
	return func(lrt *LoggingRoundTripper) {
		if !settings.HasProxy() {
			return
		}
		lrt.Proxied = settings.Transport()
		logger.Get().Info("Outbound proxy enabled",
			zap.String("component", lrt.Component),
			zap.String("proxy_host", settings.HostPort()),
		)
	}
}

// NewClient returns an http.Client with logging middleware.
func NewClient(component string, timeout time.Duration, opts ...Option) *http.Client {
	lrt := &LoggingRoundTripper{
		Proxied:   http.DefaultTransport,
		Component: component,
	}
	for _, opt := range opts {
		opt(lrt)
	}
	return &http.Client{
		Transport: lrt,
		Timeout:   timeout,
	}
}
