// Package notification appends notification rows on workflow transitions and
// serves the read/unread query surface. Rows are written inside the
// triggering transaction so a transition and its notifications commit
// together or not at all.
package notification

import (
	"gatepass/internal/models"
	"gatepass/internal/repository"

	"gorm.io/gorm"
)

type Dispatcher struct {
	repo repository.NotificationRepository
}

func NewDispatcher(repo repository.NotificationRepository) *Dispatcher {
	return &Dispatcher{repo: repo}
}

// Notify appends one notification row using the caller's transaction handle.
func (d *Dispatcher) Notify(tx *gorm.DB, userID, gatePassID uint, notificationType, message string) error {
	return d.repo.WithTx(tx).CreateNotification(&models.Notification{
		UserID:           userID,
		GatePassID:       gatePassID,
		NotificationType: notificationType,
		Message:          message,
	})
}

func (d *Dispatcher) ListByUser(userID uint) ([]models.Notification, error) {
	return d.repo.ListByUser(userID)
}

func (d *Dispatcher) UnreadCount(userID uint) (int64, error) {
	return d.repo.UnreadCount(userID)
}

func (d *Dispatcher) MarkRead(id, userID uint) error {
	return d.repo.MarkRead(id, userID)
}

func (d *Dispatcher) MarkAllRead(userID uint) error {
	return d.repo.MarkAllRead(userID)
}
