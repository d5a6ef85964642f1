package repository

import (
	"time"

	"gatepass/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GatePassFilter narrows List results; zero values mean "no filter".
type GatePassFilter struct {
	StudentID uint
	Status    string
	FromDate  *time.Time
	ToDate    *time.Time
}

type GatePassRepository interface {
	WithTx(tx *gorm.DB) GatePassRepository
	CreateGatePass(gp *models.GatePass) error
	GetGatePassByID(id uint) (*models.GatePass, error)
	// GetGatePassForUpdate reads the row under a write lock so concurrent
	// transition attempts serialize at the storage layer.
	GetGatePassForUpdate(id uint) (*models.GatePass, error)
	SaveGatePass(gp *models.GatePass) error
	ListGatePasses(filter GatePassFilter) ([]models.GatePass, error)
	// DeleteCascade removes a gate pass together with its dependent
	// notification and parent verification rows. Call inside a transaction.
	DeleteCascade(id uint) error
}

type gatePassRepository struct {
	db *gorm.DB
}

func NewGatePassRepository(db *gorm.DB) GatePassRepository {
	return &gatePassRepository{db: db}
}

func (gr *gatePassRepository) WithTx(tx *gorm.DB) GatePassRepository {
	return &gatePassRepository{db: tx}
}

func (gr *gatePassRepository) CreateGatePass(gp *models.GatePass) error {
	return gr.db.Create(gp).Error
}

func (gr *gatePassRepository) GetGatePassByID(id uint) (*models.GatePass, error) {
	var gp models.GatePass
	if err := gr.db.Preload("Student").Preload("Student.User").First(&gp, id).Error; err != nil {
		return nil, err
	}
	return &gp, nil
}

func (gr *gatePassRepository) GetGatePassForUpdate(id uint) (*models.GatePass, error) {
	var gp models.GatePass
	err := gr.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&gp, id).Error
	if err != nil {
		return nil, err
	}
	return &gp, nil
}

func (gr *gatePassRepository) SaveGatePass(gp *models.GatePass) error {
	return gr.db.Save(gp).Error
}

func (gr *gatePassRepository) ListGatePasses(filter GatePassFilter) ([]models.GatePass, error) {
	q := gr.db.Preload("Student").Order("created_at DESC")
	if filter.StudentID != 0 {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.FromDate != nil {
		q = q.Where("outing_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("outing_date <= ?", *filter.ToDate)
	}
	var passes []models.GatePass
	err := q.Find(&passes).Error
	return passes, err
}

func (gr *gatePassRepository) DeleteCascade(id uint) error {
	if err := gr.db.Where("gate_pass_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	if err := gr.db.Where("gate_pass_id = ?", id).Delete(&models.ParentVerification{}).Error; err != nil {
		return err
	}
	return gr.db.Delete(&models.GatePass{}, id).Error
}
