// Package httpapi exposes the receipt pipeline over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
	"github.com/ironsheep/receipt-crop/internal/config"
	"github.com/ironsheep/receipt-crop/internal/logger"
	"github.com/ironsheep/receipt-crop/internal/pipeline"
	"github.com/ironsheep/receipt-crop/internal/version"
)

// Form field and response headers of the crop endpoints.
const (
	ImageField      = "image"
	MethodHeader    = "X-Receipt-Method"
	RequestIDHeader = "X-Request-ID"
)

// Error messages returned for bad uploads.
const (
	msgNoImage      = "No image uploaded"
	msgInvalidImage = "Invalid image"
)

// Processor runs an encoded image through the receipt pipeline.
type Processor interface {
	Process(data []byte) (*pipeline.Result, error)
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler builds the HTTP routes around p.
func NewHandler(p Processor, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", healthCheck)
	r.POST("/crop_receipt", cropReceipt(p, cfg))
	r.POST("/detect_receipt", detectReceipt(p, cfg))

	return r
}

// cropReceipt returns the cropped receipt as a JPEG body.
func cropReceipt(p Processor, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := processUpload(c, p, cfg)
		if !ok {
			return
		}

		c.Header(MethodHeader, string(result.Report.Method))
		c.Data(http.StatusOK, "image/jpeg", result.JPEG)
	}
}

// detectReceipt returns only the processing report as JSON.
func detectReceipt(p Processor, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := processUpload(c, p, cfg)
		if !ok {
			return
		}

		c.Header(MethodHeader, string(result.Report.Method))
		c.JSON(http.StatusOK, result.Report)
	}
}

// processUpload reads the uploaded image and runs it through p within the
// request timeout. On failure the error response has been written and ok is
// false.
func processUpload(c *gin.Context, p Processor, cfg *config.Config) (*pipeline.Result, bool) {
	data, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   http.StatusText(http.StatusRequestEntityTooLarge),
				Message: fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit),
			}, err)
			return nil, false
		}
		respondError(c, http.StatusBadRequest, ErrorResponse{Error: msgNoImage}, err)
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
	defer cancel()

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := p.Process(data)
		done <- outcome{result, err}
	}()

	select {
	case <-ctx.Done():
		respondError(c, http.StatusGatewayTimeout, ErrorResponse{
			Error:   http.StatusText(http.StatusGatewayTimeout),
			Message: "image processing timed out",
		}, ctx.Err())
		return nil, false
	case out := <-done:
		if out.err != nil {
			code, body := classifyError(out.err)
			respondError(c, code, body, out.err)
			return nil, false
		}

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     out.result.Report.Method,
			"bytes_in":   len(data),
			"bytes_out":  len(out.result.JPEG),
		}).Info("Receipt request completed")
		return out.result, true
	}
}

// readUpload returns the bytes of the image form field.
func readUpload(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile(ImageField)
	if err != nil {
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// classifyError maps a pipeline failure to a status code and body. A field
// that is present but empty counts as an invalid image, not a missing one.
func classifyError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, apperrors.ErrMissingInput), errors.Is(err, apperrors.ErrInvalidImage):
		return http.StatusBadRequest, ErrorResponse{Error: msgInvalidImage}
	case errors.Is(err, apperrors.ErrDegenerateGeometry):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Degenerate receipt outline",
			Message: err.Error(),
		}
	default:
		code := apperrors.GetStatusCode(err)
		return code, ErrorResponse{Error: http.StatusText(code), Message: err.Error()}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func respondError(c *gin.Context, code int, body ErrorResponse, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  c.GetString(requestIDKey),
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, body)
}
