package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"tea-techniques-api/helper"
	"tea-techniques-api/models"
)

// AllowedHosts rejects requests whose Host header is not on the allow-list.
// An empty list or a "*" entry allows any host; entries starting with a dot
// match the domain and all its subdomains.
func AllowedHosts(hosts []string, h *helper.HTTPHelper) gin.HandlerFunc {
	exact := make(map[string]bool, len(hosts))
	var suffixes []string
	allowAll := len(hosts) == 0
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		switch {
		case host == "":
		case host == "*":
			allowAll = true
		case strings.HasPrefix(host, "."):
			suffixes = append(suffixes, host)
			exact[host[1:]] = true
		default:
			exact[host] = true
		}
	}

	return func(c *gin.Context) {
		if allowAll {
			c.Next()
			return
		}

		host := strings.ToLower(c.Request.Host)
		if stripped, _, err := net.SplitHostPort(host); err == nil {
			host = stripped
		}

		if exact[host] {
			c.Next()
			return
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(host, suffix) {
				c.Next()
				return
			}
		}

		h.SendError(c, models.NewBadRequest("Invalid host header."))
		c.Abort()
	}
}
