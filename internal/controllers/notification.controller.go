package controllers

import (
	"errors"
	"net/http"

	"gatepass/internal/gperr"
	"gatepass/internal/notification"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	dispatcher *notification.Dispatcher
}

func NewNotificationController(dispatcher *notification.Dispatcher) *NotificationController {
	return &NotificationController{dispatcher: dispatcher}
}

// ListNotifications returns the caller's notifications, unread first, newest
// within each group.
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")

	notifications, err := nc.dispatcher.ListByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Notifications retrieved successfully",
		"data":    notifications,
	})
}

func (nc *NotificationController) UnreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")

	count, err := nc.dispatcher.UnreadCount(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Unread count retrieved successfully",
		"data":    gin.H{"unread_count": count},
	})
}

// MarkRead flips one notification; it only matches rows owned by the caller.
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	userID := c.GetUint("user_id")
	if err := nc.dispatcher.MarkRead(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, &gperr.NotFound{Entity: "notification", Key: id})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Notification marked as read",
		"data":    nil,
	})
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID := c.GetUint("user_id")

	if err := nc.dispatcher.MarkAllRead(userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "All notifications marked as read",
		"data":    nil,
	})
}
