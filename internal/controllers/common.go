package controllers

import (
	"errors"
	"net/http"

	"gatepass/internal/gperr"
	"gatepass/internal/workflow"

	"github.com/gin-gonic/gin"
)

// actorFrom reads the authenticated identity placed by the auth middleware.
func actorFrom(c *gin.Context) workflow.Actor {
	return workflow.Actor{
		UserID: c.GetUint("user_id"),
		Role:   c.GetString("role"),
	}
}

// respondError maps the error taxonomy onto HTTP statuses with the standard
// response envelope.
func respondError(c *gin.Context, err error) {
	var (
		ve *gperr.ValidationError
		it *gperr.InvalidTransition
		nf *gperr.NotFound
		cf *gperr.Conflict
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   ve.Msg,
		})
	case errors.As(err, &it):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Invalid transition",
			"error":   it.Error(),
		})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Not found",
			"error":   nf.Error(),
		})
	case errors.As(err, &cf):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Conflict",
			"error":   cf.Msg,
		})
	case errors.Is(err, gperr.ErrAlreadyVerified):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Already verified",
			"error":   err.Error(),
		})
	case errors.Is(err, gperr.ErrCodeMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid verification code",
			"error":   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Internal error",
			"error":   "Database error",
		})
	}
}
