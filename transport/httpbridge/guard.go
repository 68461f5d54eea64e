package httpbridge

import (
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// ForbiddenResponse is the body of a request rejected by the origin guard.
type ForbiddenResponse struct {
	Error string `json:"error"`
}

var loopbackHosts = []string{"localhost", "127.0.0.1", "::1"}

// allowedHostnames returns the Host header names accepted for a server bound
// to host. Loopback and unspecified binds accept every loopback name.
func allowedHostnames(host string) []string {
	names := []string{strings.ToLower(host)}
	ip := net.ParseIP(host)
	if host == "" || host == "localhost" || (ip != nil && (ip.IsLoopback() || ip.IsUnspecified())) {
		names = append(names, loopbackHosts...)
	}
	return names
}

func hostname(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		host = strings.TrimSuffix(strings.TrimPrefix(hostport, "["), "]")
	}
	return strings.ToLower(host)
}

// originGuard rejects requests addressed to a foreign Host or sent from an
// origin outside allowedOrigins, and answers CORS preflight for allowed ones.
// Requests without an Origin header (curl, same-origin tools) pass the origin
// check.
func (s *Server) originGuard() gin.HandlerFunc {
	hosts := allowedHostnames(s.config.Host)

	return func(c *gin.Context) {
		if !slices.Contains(hosts, hostname(c.Request.Host)) {
			s.logger.Warn("Rejected request for foreign host", "host", c.Request.Host, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusForbidden, ForbiddenResponse{Error: "host not allowed"})
			return
		}

		origin := c.GetHeader("Origin")
		if origin != "" {
			if !slices.Contains(s.config.AllowedOrigins, origin) {
				s.logger.Warn("Rejected request from foreign origin", "origin", origin, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusForbidden, ForbiddenResponse{Error: "origin not allowed"})
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
