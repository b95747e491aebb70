package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uploadgate/upload-gateway/internal/api/metrics"
	"github.com/uploadgate/upload-gateway/internal/core/domain"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
)

// UploadField is the multipart form field carrying the file.
const UploadField = "file"

type UploadHandler struct {
	uploadService ports.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService ports.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxBytes: maxBytes}
}

// Upload stores one file for the authenticated caller.
//
// @Summary      Upload a file
// @Tags         uploads
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "jpg, jpeg, png, pdf, doc, docx or txt; at most 10 MiB"
// @Success      200   {object}  uploadResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(UploadField)
	if err != nil {
		err = h.formError(err)
		countUpload(err)
		return err
	}

	src, err := fh.Open()
	if err != nil {
		countUpload(err)
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	stored, err := h.uploadService.Upload(c.Request().Context(), ports.UploadInput{
		OriginalName: fh.Filename,
		ContentType:  fh.Header.Get(echo.HeaderContentType),
		Size:         fh.Size,
		Content:      src,
		UploadedBy:   claims.Identity(),
	})
	countUpload(err)
	if err != nil {
		return err
	}
	metrics.UploadSizeBytes.Observe(float64(stored.Size))

	return c.JSON(http.StatusOK, uploadResponse{
		Success: true,
		Message: "file uploaded successfully",
		File:    toUploadedFile(stored),
	})
}

func (h *UploadHandler) formError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return domain.Reject(domain.ErrUploadRejected,
			fmt.Sprintf("file exceeds the maximum size of %d bytes", h.maxBytes))
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return domain.Reject(domain.ErrUploadRejected, "no file was uploaded")
	default:
		return domain.Reject(domain.ErrUploadRejected, "invalid multipart form")
	}
}

func countUpload(err error) {
	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrUploadRejected):
		result = metrics.ResultRejected
	default:
		result = metrics.ResultError
	}
	metrics.UploadsTotal.WithLabelValues(result).Inc()
}
