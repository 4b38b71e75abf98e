package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantPath  string // "" means no match
		wantLimit int
	}{
		{"exact analyze", "/analyze", "POST", "/analyze", 60},
		{"trailing slash is cleaned", "/analyze/", "POST", "/analyze", 60},
		{"exact beats family", "/analyze/upload", "POST", "/analyze/upload", 30},
		{"stream falls into family", "/analyze/stream", "POST", "/analyze/*", 60},
		{"nested family path", "/analyze/stream/extra", "POST", "/analyze/*", 60},
		{"method must match", "/analyze", "GET", "", 0},
		{"family does not cover its own root by prefix", "/analyzer", "POST", "", 0},
		{"extract text", "/extract-text", "POST", "/extract-text", 120},
		{"unknown path", "/metrics", "GET", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantPath == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestMatchEndpoint_Exempt(t *testing.T) {
	for _, tt := range []struct{ path, method string }{
		{"/health", "GET"},
		{"/analyze", "OPTIONS"},
		{"/extract-text", "OPTIONS"},
	} {
		got := MatchEndpoint(tt.path, tt.method, DefaultEndpointConfigs())
		require.NotNil(t, got, "%s %s", tt.method, tt.path)
		assert.Zero(t, got.Limit)
	}
}

func TestMatchEndpoint_LongestFamilyAndAnyMethod(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/analyze/*", Limit: 10, Window: time.Minute},
		{Path: "/analyze/batch/*", Method: "POST", Limit: 2, Window: time.Minute},
	}

	got := MatchEndpoint("/analyze/batch/42", "POST", configs)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Limit)

	got = MatchEndpoint("/analyze/batch/42", "GET", configs)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Limit, "empty method matches any")
}

func TestLimiter_FamilySharesBucket(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: []EndpointConfig{{Path: "/analyze/*", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2}},
	})

	allowed, _ := limiter.Allow("c", "/analyze/stream", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/analyze/other", "POST")
	require.True(t, allowed)

	allowed, info := limiter.Allow("c", "/analyze/stream/", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 2, info.Limit)
}
