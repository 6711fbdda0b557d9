package middleware

import (
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
)

const realIPKey = "real_ip"

// ConfigureProxies restricts which peers may supply the client address.
// Forwarding headers are honoured only when the direct peer is in proxies;
// platform names a header set by a fronting CDN (e.g. gin.PlatformCloudflare)
// and should be set only when every request passes through it.
func ConfigureProxies(engine *gin.Engine, proxies []string, platform string) error {
	if err := engine.SetTrustedProxies(proxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	engine.TrustedPlatform = platform
	return nil
}

// RealIP sets the client IP resolved by the engine's trusted proxy
// configuration into Gin context (key: "real_ip").
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(realIPKey, realIP(c))
		c.Next()
	}
}

func realIP(c *gin.Context) string {
	if ip := net.ParseIP(c.ClientIP()); ip != nil {
		return ip.String()
	}
	return ""
}

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(realIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
