package middleware

import (
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// compressWriter sends the response body through an encoder negotiated from
// Accept-Encoding (br, gzip or none).
type compressWriter struct {
	gin.ResponseWriter
	enc io.WriteCloser
}

func (w *compressWriter) Write(data []byte) (int, error) {
	return w.enc.Write(data)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.enc.Write([]byte(s))
}

func (w *compressWriter) WriteHeader(code int) {
	w.ResponseWriter.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

// Compress encodes response bodies with brotli or gzip when the client accepts them.
// WebSocket upgrades and event streams pass through untouched.
func Compress() gin.HandlerFunc {
	return func(c *gin.Context) {
		if shouldSkip(c) {
			c.Next()
			return
		}

		enc := brotli.HTTPCompressor(c.Writer, c.Request)
		cw := &compressWriter{ResponseWriter: c.Writer, enc: enc}
		c.Writer = cw

		defer func() {
			if err := enc.Close(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}

func shouldSkip(c *gin.Context) bool {
	if c.Request.Method == "HEAD" {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		return true
	}
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}
