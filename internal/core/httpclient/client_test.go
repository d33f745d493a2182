package httpclient

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/core/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggingRoundTripper verifies that requests go through and carry the user agent.
func TestLoggingRoundTripper(t *testing.T) {
	var gotAgent, gotAction string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAction = r.Header.Get("SOAPAction")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	logger.Init("development", "debug")

	client := NewClient("courier", time.Second)
	req, err := http.NewRequest(http.MethodPost, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("SOAPAction", "http://tempuri.org/GetStock")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, UserAgent, gotAgent)
	assert.Equal(t, "http://tempuri.org/GetStock", gotAction)
}

// TestLoggingRoundTripper_KeepsExplicitUserAgent verifies callers can override the agent.
func TestLoggingRoundTripper_KeepsExplicitUserAgent(t *testing.T) {
	var gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom")

	resp, err := NewClient("woocommerce", time.Second).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "custom", gotAgent)
}

// TestLoggingRoundTripper_Error verifies that failed requests are logged and returned.
func TestLoggingRoundTripper_Error(t *testing.T) {
	logger.Init("development", "debug")

	client := NewClient("courier", time.Second)
	_, err := client.Get("http://invalid-url-that-does-not-exist.local")
	require.Error(t, err)
}

// TestWithProxy verifies that requests are sent to the upstream proxy with credentials.
func TestWithProxy(t *testing.T) {
	var gotHost, gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotAuth = r.Header.Get("Proxy-Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	logger.Init("development", "debug")

	u, err := url.Parse(upstream.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	client := NewClient("courier", time.Second, WithProxy(proxy.Settings{
		Enabled:  true,
		Hostname: u.Hostname(),
		Port:     port,
		Username: "bridge",
		Password: "secret",
	}))

	resp, err := client.Get("http://courier.test/ws/GetStock")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "courier.test", gotHost)
	assert.NotEmpty(t, gotAuth)
}

// TestWithProxy_Disabled verifies that an unconfigured proxy leaves the default transport.
func TestWithProxy_Disabled(t *testing.T) {
	client := NewClient("courier", time.Second, WithProxy(proxy.Settings{}))

	lrt, ok := client.Transport.(*LoggingRoundTripper)
	require.True(t, ok)
	assert.Same(t, http.DefaultTransport, lrt.Proxied)
}
