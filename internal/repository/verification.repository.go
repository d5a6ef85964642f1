package repository

import (
	"gatepass/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository interface {
	WithTx(tx *gorm.DB) VerificationRepository
	CreateVerification(pv *models.ParentVerification) error
	// LatestByGatePass returns the most recently issued record for the gate
	// pass; older rows are superseded and never consulted.
	LatestByGatePass(gatePassID uint) (*models.ParentVerification, error)
	DeleteUnverifiedByGatePass(gatePassID uint) error
	SaveVerification(pv *models.ParentVerification) error
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (vr *verificationRepository) WithTx(tx *gorm.DB) VerificationRepository {
	return &verificationRepository{db: tx}
}

func (vr *verificationRepository) CreateVerification(pv *models.ParentVerification) error {
	return vr.db.Create(pv).Error
}

func (vr *verificationRepository) LatestByGatePass(gatePassID uint) (*models.ParentVerification, error) {
	var pv models.ParentVerification
	err := vr.db.Where("gate_pass_id = ?", gatePassID).
		Order("id DESC").First(&pv).Error
	if err != nil {
		return nil, err
	}
	return &pv, nil
}

func (vr *verificationRepository) DeleteUnverifiedByGatePass(gatePassID uint) error {
	return vr.db.Where("gate_pass_id = ? AND is_verified = ?", gatePassID, false).
		Delete(&models.ParentVerification{}).Error
}

func (vr *verificationRepository) SaveVerification(pv *models.ParentVerification) error {
	return vr.db.Save(pv).Error
}
