package controllers

import (
	"log"
	"net/http"

	"gatepass/internal/utils"
	"gatepass/internal/verification"

	"github.com/gin-gonic/gin"
)

type VerifyCodeRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// VerificationController is the parent-facing entry point: codes are
// delivered out of band to the parent's mobile and submitted back here.
type VerificationController struct {
	service *verification.Service
}

func NewVerificationController(service *verification.Service) *VerificationController {
	return &VerificationController{service: service}
}

// SendCode issues a fresh code for the gate pass, superseding any pending
// one, and queues delivery to the parent's mobile.
func (vc *VerificationController) SendCode(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	code, parentMobile, err := vc.service.Reissue(id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Delivery happens after the code is committed; a delivery fault is
	// reported separately, never rolled into the issuing transaction.
	go func() {
		if err := utils.DeliverParentCode(parentMobile, code); err != nil {
			log.Printf("Failed to deliver verification code for gate pass %d: %v", id, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Verification code sent successfully",
		"data":    nil,
	})
}

// VerifyCode checks the submitted code against the latest issued one.
func (vc *VerificationController) VerifyCode(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	if err := vc.service.Verify(id, req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Parent verification completed",
		"data":    nil,
	})
}
