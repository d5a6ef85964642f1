package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gatepass/internal/gperr"
	"gatepass/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminController covers account lifecycle actions reserved for wardens and
// superadmins.
type AdminController struct {
	users repository.UserRepository
	logs  repository.SecurityLogRepository
}

func NewAdminController(users repository.UserRepository, logs repository.SecurityLogRepository) *AdminController {
	return &AdminController{users: users, logs: logs}
}

// ApproveUser clears the approval gate so the account can log in.
func (ac *AdminController) ApproveUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ac.users.SetApproved(id, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, &gperr.NotFound{Entity: "user", Key: id})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User approved successfully",
		"data":    nil,
	})
}

// DeactivateUser disables login without deleting history tied to the account.
func (ac *AdminController) DeactivateUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ac.users.Deactivate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, &gperr.NotFound{Entity: "user", Key: id})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "User deactivated successfully",
		"data":    nil,
	})
}

// ListSecurityLogs returns recent gate activity entries, newest first.
func (ac *AdminController) ListSecurityLogs(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, gperr.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	logs, err := ac.logs.ListRecent(limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Security logs retrieved successfully",
		"data":    logs,
	})
}
