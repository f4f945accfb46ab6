package mw

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/apimap/internal/errs"
	"github.com/MrSnakeDoc/apimap/internal/httpserver/respond"
	"github.com/MrSnakeDoc/apimap/internal/logger"
	"github.com/MrSnakeDoc/apimap/internal/utils"
)

// AllowOnlyCIDRS allows only specific IPs/CIDRs. An empty list disables the
// filter. trustProxy should be true behind a trusted reverse proxy.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}
	log.Debug("ip filter enabled",
		logger.Strings("allowed", allowed),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("request from disallowed ip",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				respond.Error(w, log, errs.NewForbidden(errors.New("ip not allowed"), "forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost allows requests only when the Host header (port ignored)
// matches one of the patterns. "*.example.com" matches any subdomain.
// An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := hostOnly(r.Host)
			for _, pattern := range allowedHosts {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Warn("request for disallowed host", logger.String("host", r.Host))
			respond.Error(w, log, errs.NewForbidden(errors.New("host not allowed"), "forbidden"))
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

func hostOnly(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return strings.ToLower(h)
	}
	return strings.ToLower(host)
}

func matchHost(host, pattern string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if host == pattern {
		return true
	}
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(host, pattern[1:])
	}
	return false
}
