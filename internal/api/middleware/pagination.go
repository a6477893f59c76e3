package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/ports"
)

const paginationContextKey = "pagination"

// PageParams carries the parsed pagination query parameters.
type PageParams struct {
	Page  int64
	Limit int64
}

// Pagination parses the page/limit query parameters: page defaults to 1,
// limit to 50 capped at 100. Zero or negative values fail with 400.
func Pagination() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			params := PageParams{Page: ports.DefaultPage, Limit: ports.DefaultLimit}

			if raw := c.QueryParam("page"); raw != "" {
				page, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || page < 1 {
					return domain.NewValidationError("Invalid pagination parameters")
				}
				params.Page = page
			}
			if raw := c.QueryParam("limit"); raw != "" {
				limit, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || limit < 1 {
					return domain.NewValidationError("Invalid pagination parameters")
				}
				if limit > ports.MaxLimit {
					limit = ports.MaxLimit
				}
				params.Limit = limit
			}

			c.Set(paginationContextKey, params)
			return next(c)
		}
	}
}

// PageParamsFrom returns the parsed pagination parameters, falling back to
// the defaults when the middleware did not run.
func PageParamsFrom(c echo.Context) PageParams {
	if params, ok := c.Get(paginationContextKey).(PageParams); ok {
		return params
	}
	return PageParams{Page: ports.DefaultPage, Limit: ports.DefaultLimit}
}
