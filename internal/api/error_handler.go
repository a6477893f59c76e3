package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
)

// errorResponse is the canonical error envelope: status is "fail" for 4xx
// and "error" otherwise, mirroring the success envelope's "success".
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps operational errors to their declared HTTP status codes.
//   - Logs unexpected errors internally; in production they are replaced
//     with a generic message, in development the detail is echoed back.
func NewHTTPErrorHandler(log zerolog.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ae *domain.AppError
		if errors.As(err, &ae) {
			_ = c.JSON(ae.Code, errorResponse{Status: ae.Status(), Message: ae.Message})
			return
		}

		// Echo's own errors (bind failures, 404 from the router, etc.)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status := "error"
			if he.Code >= 400 && he.Code < 500 {
				status = "fail"
			}
			_ = c.JSON(he.Code, errorResponse{Status: status, Message: fmt.Sprintf("%v", he.Message)})
			return
		}

		// Unexpected error: log the real cause, hide it from the client.
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")

		resp := errorResponse{Status: "error", Message: "Something went wrong!"}
		if development {
			resp.Error = err.Error()
		}
		_ = c.JSON(http.StatusInternalServerError, resp)
	}
}
