package middleware

import "github.com/gin-gonic/gin"

// apiHeaders are set on every response. The API only serves JSON, so
// nothing may be framed, sniffed or cached.
var apiHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Referrer-Policy", "no-referrer"},
	{"Cache-Control", "no-store"},
}

// SafeHeader adds the security headers of a JSON API to each response.
// HSTS is only sent in release mode, where TLS terminates in front of us.
func SafeHeader() gin.HandlerFunc {
	release := gin.Mode() == gin.ReleaseMode
	return func(c *gin.Context) {
		for _, h := range apiHeaders {
			c.Header(h[0], h[1])
		}
		if release {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}
		c.Next()
	}
}
