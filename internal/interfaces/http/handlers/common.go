// Package handlers holds the gin endpoint handlers for the design API.
package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greenmobile/heatglass/pkg/errors"
)

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps a coded AppError onto its HTTP status; anything else
// becomes a 500.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(errors.HTTPStatusForCode(appErr.Code), errorResponse{
			Code:    string(appErr.Code),
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{
		Code:    string(errors.ErrCodeInternal),
		Message: err.Error(),
	})
}

// respondBadRequest reports a malformed request body.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{
		Code:    string(errors.ErrCodeBadRequest),
		Message: err.Error(),
	})
}

// queryInt reads an integer query parameter with a fallback.
func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
