package repository

import (
	"gatepass/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	CreateNotification(n *models.Notification) error
	ListByUser(userID uint) ([]models.Notification, error)
	UnreadCount(userID uint) (int64, error)
	MarkRead(id, userID uint) error
	MarkAllRead(userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (nr *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (nr *notificationRepository) CreateNotification(n *models.Notification) error {
	return nr.db.Create(n).Error
}

func (nr *notificationRepository) ListByUser(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := nr.db.Where("user_id = ?", userID).
		Order("is_read ASC, created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (nr *notificationRepository) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := nr.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (nr *notificationRepository) MarkRead(id, userID uint) error {
	result := nr.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (nr *notificationRepository) MarkAllRead(userID uint) error {
	return nr.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
