// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tollfee/internal/modules/toll"
)

var errInvalidTimestamp = errors.New("invalid timestamp")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeTollError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, toll.ErrUnknownVehicleClass),
		errors.Is(err, toll.ErrInvalidClock),
		errors.Is(err, toll.ErrInvalidBand),
		errors.Is(err, toll.ErrInvalidDate),
		errors.Is(err, errInvalidTimestamp):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// writeBindError keeps domain errors raised while decoding (an unknown
// vehicle name) and reports everything else as a malformed body.
func writeBindError(c *gin.Context, err error) {
	if errors.Is(err, toll.ErrUnknownVehicleClass) {
		writeTollError(c, err)
		return
	}
	writeError(c, http.StatusBadRequest, "invalid request body")
}
