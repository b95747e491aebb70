package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// MultipartOverhead is the allowance for multipart boundaries and part
// headers on top of the file size ceiling.
const MultipartOverhead int64 = 1 << 20

// UploadLimit rejects bodies that declare more than maxBytes plus
// MultipartOverhead and caps the rest with http.MaxBytesReader. Mount it
// ahead of Auth so oversized uploads fail without a token check.
func UploadLimit(maxBytes int64) echo.MiddlewareFunc {
	limit := maxBytes + MultipartOverhead

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.ContentLength > limit {
				return domain.Reject(domain.ErrUploadRejected,
					fmt.Sprintf("file exceeds the maximum size of %d bytes", maxBytes))
			}
			req.Body = http.MaxBytesReader(c.Response(), req.Body, limit)
			return next(c)
		}
	}
}
