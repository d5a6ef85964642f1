package repository

import (
	"errors"

	"gatepass/internal/models"

	"gorm.io/gorm"
)

type StudentRepository interface {
	WithTx(tx *gorm.DB) StudentRepository
	CreateStudent(student *models.Student) error
	GetStudentByID(id uint) (*models.Student, error)
	GetStudentByUserID(userID uint) (*models.Student, error)
	GetStudentByHallTicket(hallTicketNo string) (*models.Student, error)
	HallTicketExists(hallTicketNo string) (bool, error)
	ParentMobileExists(mobile string) (bool, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (sr *studentRepository) WithTx(tx *gorm.DB) StudentRepository {
	return &studentRepository{db: tx}
}

func (sr *studentRepository) CreateStudent(student *models.Student) error {
	return sr.db.Create(student).Error
}

func (sr *studentRepository) GetStudentByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := sr.db.Preload("User").First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (sr *studentRepository) GetStudentByUserID(userID uint) (*models.Student, error) {
	var student models.Student
	if err := sr.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (sr *studentRepository) GetStudentByHallTicket(hallTicketNo string) (*models.Student, error) {
	var student models.Student
	if err := sr.db.Where("hall_ticket_no = ?", hallTicketNo).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (sr *studentRepository) HallTicketExists(hallTicketNo string) (bool, error) {
	var student models.Student
	err := sr.db.Select("id").Where("hall_ticket_no = ?", hallTicketNo).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (sr *studentRepository) ParentMobileExists(mobile string) (bool, error) {
	var student models.Student
	err := sr.db.Select("id").Where("parent_mobile = ?", mobile).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
