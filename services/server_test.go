package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name     string
		origins  string
		expected []string
	}{
		{
			name:     "single origin",
			origins:  "http://localhost:4200",
			expected: []string{"http://localhost:4200"},
		},
		{
			name:     "multiple origins",
			origins:  "http://localhost:4200,https://app.example.com",
			expected: []string{"http://localhost:4200", "https://app.example.com"},
		},
		{
			name:     "origins with whitespace",
			origins:  "http://localhost:4200, https://app.example.com",
			expected: []string{"http://localhost:4200", "https://app.example.com"},
		},
		{
			name:     "empty",
			origins:  "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, splitOrigins(tt.origins))
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "up", body["database"])
}

func TestHealthEndpoint_NoDatabase(t *testing.T) {
	config := &Config{JWT: JWTConfig{Secret: "test-secret"}}
	srv := NewServer(config)
	require.NoError(t, srv.InitializeServices())
	handler := srv.SetupRoutes()

	rec := doRequest(t, handler, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "not configured", decodeBody(t, rec)["database"])
}
