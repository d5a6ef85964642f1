package repository

import (
	"errors"

	"gatepass/internal/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	UsernameExists(username string) (bool, error)
	MobileExists(mobile string) (bool, error)
	FindActiveByRole(role string) ([]models.User, error)
	SetApproved(id uint, approved bool) error
	Deactivate(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (ur *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (ur *userRepository) CreateUser(user *models.User) error {
	return ur.db.Create(user).Error
}

func (ur *userRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := ur.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := ur.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepository) UsernameExists(username string) (bool, error) {
	var user models.User
	err := ur.db.Select("id").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (ur *userRepository) MobileExists(mobile string) (bool, error) {
	if mobile == "" {
		return false, nil
	}
	var user models.User
	err := ur.db.Select("id").Where("mobile_number = ?", mobile).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (ur *userRepository) FindActiveByRole(role string) ([]models.User, error) {
	var users []models.User
	err := ur.db.Where("role = ? AND is_active = ? AND is_approved = ?", role, true, true).
		Find(&users).Error
	return users, err
}

func (ur *userRepository) SetApproved(id uint, approved bool) error {
	result := ur.db.Model(&models.User{}).Where("id = ?", id).Update("is_approved", approved)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ur *userRepository) Deactivate(id uint) error {
	result := ur.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
