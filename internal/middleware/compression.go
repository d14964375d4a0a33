package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// uncompressedPaths are served as-is. Prometheus negotiates its own encoding.
var uncompressedPaths = []string{"/metrics", "/healthz", "/readyz"}

// Compression gzips responses for clients that accept it, including menu
// listings and the order CSV export.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths(uncompressedPaths))
}
