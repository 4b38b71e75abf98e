package ratelimit

import (
	"net/http"
	"path"
	"strings"
)

// familySuffix marks a config path that covers every subpath of its prefix
const familySuffix = "/*"

// MatchEndpoint returns the configuration that governs a request, or nil when
// the default limit applies. GET /health and CORS preflights are exempt and get
// a zero-limit config.
//
// Paths are cleaned first, so "/analyze/" is "/analyze". An exact path beats a
// family ("/analyze/*"), and a longer family beats a shorter one. An empty
// Method matches any method.
func MatchEndpoint(urlPath string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || (urlPath == "/health" && method == http.MethodGet) {
		return &EndpointConfig{}
	}
	urlPath = cleanPath(urlPath)

	var family *EndpointConfig
	familyLen := -1
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != "" && !strings.EqualFold(cfg.Method, method) {
			continue
		}
		if cfg.Path == urlPath {
			return cfg
		}
		prefix, ok := strings.CutSuffix(cfg.Path, familySuffix)
		if ok && strings.HasPrefix(urlPath, prefix+"/") && len(prefix) > familyLen {
			family, familyLen = cfg, len(prefix)
		}
	}
	return family
}

// bucketName names the token bucket a request draws from. Every path in a
// family shares the family's bucket.
func bucketName(urlPath string, cfg *EndpointConfig) string {
	if cfg != nil && cfg.Path != "" {
		return cfg.Path
	}
	return cleanPath(urlPath)
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean(p)
}
