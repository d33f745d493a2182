package proxy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_HasProxy(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     bool
	}{
		{"disabled", Settings{Hostname: "egress.local", Port: 3128}, false},
		{"missing host", Settings{Enabled: true, Port: 3128}, false},
		{"missing port", Settings{Enabled: true, Hostname: "egress.local"}, false},
		{"configured", Settings{Enabled: true, Hostname: "egress.local", Port: 3128}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.HasProxy())
		})
	}
}

func TestSettings_URL(t *testing.T) {
	s := Settings{Enabled: true, Hostname: "egress.local", Port: 3128, Username: "bridge", Password: "p@ss"}

	u := s.URL()
	require.NotNil(t, u)
	assert.Equal(t, "egress.local:3128", u.Host)
	assert.Equal(t, "bridge", u.User.Username())
	assert.Equal(t, "http://egress.local:3128", s.HostPort())
	assert.NotContains(t, s.HostPort(), "p@ss")

	assert.Nil(t, Settings{}.URL())
}

func TestSettings_Transport(t *testing.T) {
	assert.Same(t, http.DefaultTransport, Settings{}.Transport())

	s := Settings{Enabled: true, Hostname: "egress.local", Port: 3128}
	transport, ok := s.Transport().(*http.Transport)
	require.True(t, ok)

	req, err := http.NewRequest(http.MethodPost, "https://courier.test/ws", nil)
	require.NoError(t, err)
	proxyURL, err := transport.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "egress.local:3128", proxyURL.Host)
}
