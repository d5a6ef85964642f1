package repository

import (
	"gatepass/internal/models"

	"gorm.io/gorm"
)

type SecurityLogRepository interface {
	CreateSecurityLog(entry *models.SecurityLog) error
	ListRecent(limit int) ([]models.SecurityLog, error)
}

type securityLogRepository struct {
	db *gorm.DB
}

func NewSecurityLogRepository(db *gorm.DB) SecurityLogRepository {
	return &securityLogRepository{db: db}
}

func (sr *securityLogRepository) CreateSecurityLog(entry *models.SecurityLog) error {
	return sr.db.Create(entry).Error
}

func (sr *securityLogRepository) ListRecent(limit int) ([]models.SecurityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []models.SecurityLog
	err := sr.db.Order("timestamp DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
