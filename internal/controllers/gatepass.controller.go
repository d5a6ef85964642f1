package controllers

import (
	"net/http"
	"strconv"
	"time"

	"gatepass/internal/gperr"
	"gatepass/internal/models"
	"gatepass/internal/repository"
	"gatepass/internal/workflow"

	"github.com/gin-gonic/gin"
)

type CreateGatePassRequest struct {
	OutingDate         string `json:"outing_date" binding:"required"`
	OutingTime         string `json:"outing_time" binding:"required"`
	ExpectedReturnDate string `json:"expected_return_date" binding:"required"`
	ExpectedReturnTime string `json:"expected_return_time" binding:"required"`
	Purpose            string `json:"purpose" binding:"required"`
	Photo              string `json:"photo"`
}

type DecisionRequest struct {
	Action             string `json:"action" binding:"required"`
	ParentVerification bool   `json:"parent_verification"`
	RejectionReason    string `json:"rejection_reason"`
}

type ReturnRequest struct {
	ReturnNotes string `json:"return_notes"`
}

type GatePassController struct {
	engine   *workflow.Engine
	passes   repository.GatePassRepository
	students repository.StudentRepository
}

func NewGatePassController(engine *workflow.Engine, passes repository.GatePassRepository,
	students repository.StudentRepository) *GatePassController {
	return &GatePassController{engine: engine, passes: passes, students: students}
}

// CreateGatePass submits a new outing request for the authenticated student.
func (gc *GatePassController) CreateGatePass(c *gin.Context) {
	var req CreateGatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	outingDate, err := time.ParseInLocation("2006-01-02", req.OutingDate, time.Local)
	if err != nil {
		respondError(c, gperr.Validation("outing_date must be YYYY-MM-DD"))
		return
	}
	returnDate, err := time.ParseInLocation("2006-01-02", req.ExpectedReturnDate, time.Local)
	if err != nil {
		respondError(c, gperr.Validation("expected_return_date must be YYYY-MM-DD"))
		return
	}
	gp, err := gc.engine.Create(actorFrom(c), workflow.CreateRequest{
		OutingDate:         outingDate,
		OutingTime:         req.OutingTime,
		ExpectedReturnDate: returnDate,
		ExpectedReturnTime: req.ExpectedReturnTime,
		Purpose:            req.Purpose,
		Photo:              req.Photo,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Gate pass request submitted",
		"data":    gp,
	})
}

func (gc *GatePassController) GetGatePass(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	gp, err := gc.passes.GetGatePassByID(id)
	if err != nil {
		respondError(c, &gperr.NotFound{Entity: "gate pass", Key: id})
		return
	}

	// Students may only see their own passes.
	actor := actorFrom(c)
	if actor.Role == models.RoleStudent {
		student, err := gc.students.GetStudentByUserID(actor.UserID)
		if err != nil || student.ID != gp.StudentID {
			respondError(c, &gperr.NotFound{Entity: "gate pass", Key: id})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Gate pass retrieved successfully",
		"data":    gp,
	})
}

// ListGatePasses returns passes scoped by role: students see their own,
// staff see everything, optionally narrowed by status and outing date range.
func (gc *GatePassController) ListGatePasses(c *gin.Context) {
	var filter repository.GatePassFilter

	actor := actorFrom(c)
	if actor.Role == models.RoleStudent {
		student, err := gc.students.GetStudentByUserID(actor.UserID)
		if err != nil {
			respondError(c, &gperr.NotFound{Entity: "student profile", Key: actor.UserID})
			return
		}
		filter.StudentID = student.ID
	}

	if status := c.Query("status"); status != "" {
		normalized, ok := models.NormalizeStatus(status)
		if !ok {
			respondError(c, gperr.Validation("unknown status %q", status))
			return
		}
		filter.Status = normalized
	}
	if from := c.Query("from_date"); from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			respondError(c, gperr.Validation("from_date must be YYYY-MM-DD"))
			return
		}
		filter.FromDate = &t
	}
	if to := c.Query("to_date"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			respondError(c, gperr.Validation("to_date must be YYYY-MM-DD"))
			return
		}
		filter.ToDate = &t
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		respondError(c, gperr.Validation("from_date cannot be after to_date"))
		return
	}

	passes, err := gc.passes.ListGatePasses(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Gate passes retrieved successfully",
		"data":    passes,
	})
}

// WardenDecision approves or rejects a pending request.
func (gc *GatePassController) WardenDecision(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	gp, err := gc.engine.WardenDecide(actorFrom(c), id, workflow.DecisionRequest{
		Action:                 req.Action,
		ParentVerificationDone: req.ParentVerification,
		RejectionReason:        req.RejectionReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Decision recorded",
		"data":    gp,
	})
}

func (gc *GatePassController) SecurityExit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	gp, err := gc.engine.SecurityExit(actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Exit recorded",
		"data":    gp,
	})
}

func (gc *GatePassController) SecurityReturn(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	gp, err := gc.engine.SecurityReturn(actorFrom(c), id, req.ReturnNotes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Return recorded",
		"data":    gp,
	})
}

func (gc *GatePassController) CompleteGatePass(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	gp, err := gc.engine.Complete(actorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Gate pass completed",
		"data":    gp,
	})
}

// DeleteGatePass purges a pass together with its dependent rows.
func (gc *GatePassController) DeleteGatePass(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := gc.engine.Purge(actorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Gate pass and related records deleted",
		"data":    nil,
	})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, gperr.Validation("id must be a positive integer")
	}
	return uint(id), nil
}
