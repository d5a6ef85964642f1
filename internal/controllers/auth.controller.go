package controllers

import (
	"log"
	"net/http"
	"os"
	"time"

	"gatepass/internal/bulkimport"
	"gatepass/internal/gperr"
	"gatepass/internal/models"
	"gatepass/internal/repository"
	"gatepass/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type StudentRegistrationRequest struct {
	StudentName  string `json:"student_name" binding:"required"`
	HallTicketNo string `json:"hall_ticket_no" binding:"required"`
	RoomNo       string `json:"room_no" binding:"required"`
	Gender       string `json:"gender" binding:"required,oneof=M F"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	ParentName   string `json:"parent_name" binding:"required"`
	ParentMobile string `json:"parent_mobile" binding:"required,len=10,numeric"`
	Password     string `json:"password" binding:"required,min=8"`
	Photo        string `json:"photo"`
}

type StaffRegistrationRequest struct {
	Username     string `json:"username" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	Gender       string `json:"gender" binding:"required,oneof=M F"`
	Password     string `json:"password" binding:"required,min=8"`
	Department   string `json:"department"`
	Shift        string `json:"shift"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	db       *gorm.DB
	users    repository.UserRepository
	students repository.StudentRepository
	logs     repository.SecurityLogRepository
}

func NewAuthController(db *gorm.DB, users repository.UserRepository,
	students repository.StudentRepository, logs repository.SecurityLogRepository) *AuthController {
	return &AuthController{db: db, users: users, students: students, logs: logs}
}

// recordLoginEvent writes an audit row; a failed write never affects the
// login response.
func (ac *AuthController) recordLoginEvent(c *gin.Context, eventType, message string, userID *uint) {
	err := ac.logs.CreateSecurityLog(&models.SecurityLog{
		EventType: eventType,
		Message:   message,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		UserID:    userID,
		Path:      c.FullPath(),
		Method:    c.Request.Method,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to write security log: %v", err)
	}
}

// RegisterStudent creates a User plus Student profile. The username is
// derived the same way bulk import derives it, so both entry paths agree.
// New accounts await warden approval before they can log in.
func (ac *AuthController) RegisterStudent(c *gin.Context) {
	var req StudentRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	username := bulkimport.DeriveUsername(req.StudentName, req.HallTicketNo)

	if err := ac.checkStudentUniqueness(username, req); err != nil {
		respondError(c, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	err = ac.db.Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Username:     username,
			Email:        req.Email,
			Password:     hash,
			Role:         models.RoleStudent,
			Gender:       req.Gender,
			MobileNumber: req.MobileNumber,
			IsActive:     true,
		}
		if err := ac.users.WithTx(tx).CreateUser(user); err != nil {
			return err
		}
		return ac.students.WithTx(tx).CreateStudent(&models.Student{
			UserID:       user.ID,
			HallTicketNo: req.HallTicketNo,
			StudentName:  req.StudentName,
			RoomNo:       req.RoomNo,
			ParentName:   req.ParentName,
			ParentMobile: req.ParentMobile,
			Photo:        req.Photo,
		})
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Registration submitted; awaiting approval",
		"data":    gin.H{"username": username},
	})
}

func (ac *AuthController) checkStudentUniqueness(username string, req StudentRegistrationRequest) error {
	if exists, err := ac.students.HallTicketExists(req.HallTicketNo); err != nil {
		return err
	} else if exists {
		return &gperr.Conflict{Msg: "Student with this hall ticket number already exists"}
	}
	if exists, err := ac.students.ParentMobileExists(req.ParentMobile); err != nil {
		return err
	} else if exists {
		return &gperr.Conflict{Msg: "Parent mobile number already exists"}
	}
	if exists, err := ac.users.UsernameExists(username); err != nil {
		return err
	} else if exists {
		return &gperr.Conflict{Msg: "Username " + username + " already exists"}
	}
	if exists, err := ac.users.MobileExists(req.MobileNumber); err != nil {
		return err
	} else if exists {
		return &gperr.Conflict{Msg: "Mobile number already exists"}
	}
	return nil
}

// RegisterWarden and RegisterSecurity share the staff registration shape.
func (ac *AuthController) RegisterWarden(c *gin.Context) {
	ac.registerStaff(c, models.RoleWarden)
}

func (ac *AuthController) RegisterSecurity(c *gin.Context) {
	ac.registerStaff(c, models.RoleSecurity)
}

func (ac *AuthController) registerStaff(c *gin.Context, role string) {
	var req StaffRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	if role == models.RoleSecurity && req.Shift != "Morning" && req.Shift != "Night" {
		respondError(c, gperr.Validation("shift must be Morning or Night"))
		return
	}

	if exists, err := ac.users.UsernameExists(req.Username); err != nil {
		respondError(c, err)
		return
	} else if exists {
		respondError(c, &gperr.Conflict{Msg: "Username " + req.Username + " already exists"})
		return
	}
	if exists, err := ac.users.MobileExists(req.MobileNumber); err != nil {
		respondError(c, err)
		return
	} else if exists {
		respondError(c, &gperr.Conflict{Msg: "Mobile number already exists"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	err = ac.db.Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Username:     req.Username,
			Email:        req.Email,
			Password:     hash,
			Role:         role,
			Gender:       req.Gender,
			MobileNumber: req.MobileNumber,
			IsActive:     true,
		}
		if err := ac.users.WithTx(tx).CreateUser(user); err != nil {
			return err
		}
		if role == models.RoleWarden {
			return tx.Create(&models.Warden{UserID: user.ID, Name: req.Name, Department: req.Department}).Error
		}
		return tx.Create(&models.Security{UserID: user.ID, Name: req.Name, Shift: req.Shift}).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Registration submitted; awaiting approval",
		"data":    nil,
	})
}

// Login verifies credentials and issues a 24h JWT with user id and role.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	user, err := ac.users.GetUserByUsername(req.Username)
	if err != nil || !utils.CheckPassword(user.Password, req.Password) {
		ac.recordLoginEvent(c, "login_failed", "Invalid credentials for "+req.Username, nil)
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid credentials",
			"error":   "Username or password is incorrect",
		})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"message": "Account deactivated",
			"error":   "This account is no longer active",
		})
		return
	}
	if !user.IsApproved {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"message": "Account pending approval",
			"error":   "Your registration has not been approved yet",
		})
		return
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET_KEY")))
	if err != nil {
		respondError(c, err)
		return
	}

	ac.recordLoginEvent(c, "login_success", "Login by "+user.Username, &user.ID)

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Login successful",
		"data": gin.H{
			"token": signed,
			"role":  user.Role,
		},
	})
}
