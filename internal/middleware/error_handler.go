package middleware

import (
	"errors"
	"log/slog"

	"socialfeed/backend/internal/apierror"
	"socialfeed/backend/internal/config"

	"github.com/gin-gonic/gin"
)

// errorEnvelope is the uniform failure response body.
type errorEnvelope struct {
	Error *apierror.Error `json:"error"`
}

// ErrorHandler renders errors attached via c.Error after the handler chain has
// run. Anything that is not an *apierror.Error is logged and mapped to
// internal_server_error; its detail is only exposed in development mode.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var apiErr *apierror.Error
		if !errors.As(err, &apiErr) {
			slog.Error("unhandled error", "path", c.FullPath(), "err", err)
			apiErr = apierror.Internal(err.Error())
		}

		if apiErr.Code == apierror.CodeInternal && !config.AppConfig.IsDevelopment() {
			apiErr = &apierror.Error{Code: apiErr.Code, Message: apiErr.Message}
		}

		c.AbortWithStatusJSON(apiErr.Status(), errorEnvelope{Error: apiErr})
	}
}

// PanicHandler converts panics into the same error envelope.
func PanicHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered", "path", c.FullPath(), "panic", recovered)
		apiErr := apierror.New(apierror.CodeInternal, "Internal server error")
		c.AbortWithStatusJSON(apiErr.Status(), errorEnvelope{Error: apiErr})
	})
}
