package middleware

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ETagConfig holds cache validation configuration for read-heavy endpoints.
type ETagConfig struct {
	MaxAge      int      // Cache max-age in seconds
	VaryHeaders []string // Headers to include in Vary
}

// DefaultETagConfig returns settings suitable for the dashboard and report
// endpoints: short-lived private caching with conditional revalidation.
func DefaultETagConfig() ETagConfig {
	return ETagConfig{
		MaxAge:      60,
		VaryHeaders: []string{"Accept", "Authorization"},
	}
}

// bufferedResponseWriter captures the response body in a buffer so it can
// be hashed for ETag computation before flushing to the real writer.
type bufferedResponseWriter struct {
	writer     http.ResponseWriter
	buf        *bytes.Buffer
	statusCode int
}

func newBufferedResponseWriter(w http.ResponseWriter) *bufferedResponseWriter {
	return &bufferedResponseWriter{
		writer:     w,
		buf:        &bytes.Buffer{},
		statusCode: http.StatusOK,
	}
}

// Header returns the underlying writer's header map so that headers set by
// handlers are visible to both the middleware and the final flush.
func (w *bufferedResponseWriter) Header() http.Header {
	return w.writer.Header()
}

func (w *bufferedResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *bufferedResponseWriter) WriteHeader(code int) {
	w.statusCode = code
}

// Flush implements http.Flusher (no-op for buffer).
func (w *bufferedResponseWriter) Flush() {}

// flushTo writes the buffered status and body to the underlying writer.
func (w *bufferedResponseWriter) flushTo() error {
	w.writer.WriteHeader(w.statusCode)
	if w.buf.Len() > 0 {
		_, err := w.writer.Write(w.buf.Bytes())
		return err
	}
	return nil
}

// ETag returns Echo middleware that computes and sets ETag, Cache-Control,
// and Vary headers on GET/HEAD responses, and answers If-None-Match with
// 304 Not Modified. Dashboard measures are recomputed from the database on
// every request, so conditional revalidation saves the transfer while
// keeping results fresh.
func ETag(config ETagConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return next(c)
			}

			// Replace the response writer with a buffered version.
			res := c.Response()
			origWriter := res.Writer
			buf := newBufferedResponseWriter(origWriter)
			res.Writer = buf

			if err := next(c); err != nil {
				res.Writer = origWriter
				return err
			}

			res.Writer = origWriter

			// Skip ETag/cache headers for error responses.
			if buf.statusCode >= 400 {
				return buf.flushTo()
			}

			res.Header().Set("Cache-Control", fmt.Sprintf("private, max-age=%d", config.MaxAge))
			if len(config.VaryHeaders) > 0 {
				res.Header().Set("Vary", strings.Join(config.VaryHeaders, ", "))
			}

			etag := computeETag(buf.buf.Bytes())
			res.Header().Set("ETag", etag)

			if inm := req.Header.Get("If-None-Match"); inm != "" && etagMatch(inm, etag) {
				origWriter.WriteHeader(http.StatusNotModified)
				return nil
			}

			return buf.flushTo()
		}
	}
}

// computeETag returns a weak ETag based on the MD5 hash of the body.
func computeETag(body []byte) string {
	hash := md5.Sum(body)
	return fmt.Sprintf(`W/"%x"`, hash)
}

// etagMatch checks if the provided If-None-Match header value matches the
// given ETag. Supports comma-separated lists and the wildcard "*".
func etagMatch(headerVal, etag string) bool {
	headerVal = strings.TrimSpace(headerVal)
	if headerVal == "*" {
		return true
	}
	for _, candidate := range strings.Split(headerVal, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == etag {
			return true
		}
		// Weak comparison: W/"x" matches W/"x" or "x".
		if stripWeakPrefix(candidate) == stripWeakPrefix(etag) {
			return true
		}
	}
	return false
}

// stripWeakPrefix removes the W/ prefix from a weak ETag.
func stripWeakPrefix(etag string) string {
	if strings.HasPrefix(etag, `W/`) {
		return etag[2:]
	}
	return etag
}
