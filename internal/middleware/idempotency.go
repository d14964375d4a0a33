package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader carries the client's retry key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the replay store.
	IdempotencyReplayedHeader = "Idempotent-Replayed"
	// IdempotencyKeyTTL is how long a response stays replayable.
	IdempotencyKeyTTL = 10 * time.Minute

	maxIdempotencyKeyLen = 255
)

// IdempotencyConfig configures the Idempotency middleware.
type IdempotencyConfig struct {
	Store   ReplayStore
	Enabled bool
}

// DefaultIdempotencyConfig keeps replays in process memory.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Store:   NewMemoryReplayStore(IdempotencyKeyTTL),
		Enabled: true,
	}
}

// Idempotency replays the stored response of a mutating request retried with
// the same Idempotency-Key. Keys are scoped by storefront session, route and
// body, so the same key sent with a different cart or payload runs normally.
// Only 2xx responses are stored; failed attempts may be retried.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Store == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key is too long"})
			return
		}

		ctx := c.Request.Context()
		digest := replayKey(key, c.Request)
		if stored, ok := cfg.Store.Load(ctx, digest); ok {
			for k, v := range stored.Headers {
				c.Header(k, v)
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		rec := &replayRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status < 200 || status >= 300 {
			return
		}
		cfg.Store.Save(context.WithoutCancel(ctx), digest, &StoredResponse{
			StatusCode:  status,
			ContentType: rec.Header().Get("Content-Type"),
			Headers:     replayableHeaders(rec.Header()),
			Body:        rec.body.Bytes(),
			StoredAt:    time.Now(),
		})
	}
}

// replayKey hashes the client key together with the session, method, path
// and body of the request. The body is restored for downstream handlers.
func replayKey(key string, req *http.Request) string {
	h := sha256.New()
	for _, part := range []string{key, req.Header.Get(SessionIDHeader), req.Method, req.URL.Path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	if req.Body != nil {
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Headers carried over on replay. Request ids are never replayed.
var replayHeaderNames = []string{SessionIDHeader, "Location", "Content-Disposition", "X-Row-Count"}

func replayableHeaders(h http.Header) map[string]string {
	out := make(map[string]string)
	for _, name := range replayHeaderNames {
		if v := h.Get(name); v != "" {
			out[name] = v
		}
	}
	return out
}

type replayRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *replayRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *replayRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
