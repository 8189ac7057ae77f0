// Package handlers contains the HTTP handlers of API v1. Handlers parse
// requests into core primitive types, call the registries, and map
// snapshots to response DTOs; errors go through the gin error chain and are
// rendered by the ErrorHandler middleware.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fxledger/internal/core/apperror"
)

// pathID parses an integer id path parameter. On failure it pushes an
// InvalidArgument error and reports false; the caller must return.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		abortWith(c, apperror.NewInvalidArgument("invalid id").
			WithDetail("param", name).
			WithDetail("value", raw))
		return 0, false
	}
	return v, true
}

// queryID parses an integer id query parameter. On failure it pushes an
// InvalidArgument error and reports false; the caller must return.
func queryID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		abortWith(c, apperror.NewInvalidArgument("invalid id").
			WithDetail("param", name).
			WithDetail("value", raw))
		return 0, false
	}
	return v, true
}

// queryInt parses a non-negative integer query parameter with a default.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		abortWith(c, apperror.NewInvalidArgument("must be a non-negative integer").
			WithDetail("param", name).
			WithDetail("value", raw))
		return 0, false
	}
	return v, true
}

// bindJSON binds the request body, converting bind failures to InvalidArgument.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWith(c, apperror.NewInvalidArgument("invalid request body").WithCause(err))
		return false
	}
	return true
}

// abortWith records err for the ErrorHandler middleware and stops the chain.
func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
