// Package verification issues and checks the one-time parent consent codes
// attached to gate passes. At most one active (unverified) code exists per
// gate pass; issuing a new code supersedes the previous one.
package verification

import (
	"errors"
	"time"

	"gatepass/internal/gperr"
	"gatepass/internal/models"
	"gatepass/internal/repository"
	"gatepass/internal/utils"

	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	repo     repository.VerificationRepository
	passes   repository.GatePassRepository
	students repository.StudentRepository
}

func NewService(db *gorm.DB, repo repository.VerificationRepository,
	passes repository.GatePassRepository, students repository.StudentRepository) *Service {
	return &Service{db: db, repo: repo, passes: passes, students: students}
}

// Issue creates a fresh 6-digit code for the gate pass inside the caller's
// transaction, invalidating any pending one. parentMobile is snapshotted so
// the delivery channel does not depend on the student record later changing.
func (s *Service) Issue(tx *gorm.DB, gatePassID uint, parentMobile string) (string, error) {
	repo := s.repo.WithTx(tx)

	latest, err := repo.LatestByGatePass(gatePassID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if latest != nil && latest.IsVerified {
		return "", gperr.ErrAlreadyVerified
	}

	if err := repo.DeleteUnverifiedByGatePass(gatePassID); err != nil {
		return "", err
	}

	code := utils.GenerateVerificationCode()
	pv := &models.ParentVerification{
		GatePassID:       gatePassID,
		VerificationCode: code,
		ParentMobile:     parentMobile,
	}
	if err := repo.CreateVerification(pv); err != nil {
		return "", err
	}
	return code, nil
}

// Reissue opens its own transaction, resolving the parent mobile from the
// student profile. Used by the standalone "resend code" entry point; the
// returned mobile is the delivery target.
func (s *Service) Reissue(gatePassID uint) (code, parentMobile string, err error) {
	err = s.db.Transaction(func(tx *gorm.DB) error {
		gp, err := s.passes.WithTx(tx).GetGatePassForUpdate(gatePassID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &gperr.NotFound{Entity: "gate pass", Key: gatePassID}
			}
			return err
		}
		student, err := s.students.WithTx(tx).GetStudentByID(gp.StudentID)
		if err != nil {
			return &gperr.NotFound{Entity: "student", Key: gp.StudentID}
		}
		parentMobile = student.ParentMobile
		code, err = s.Issue(tx, gp.ID, parentMobile)
		return err
	})
	if err != nil {
		return "", "", err
	}
	return code, parentMobile, nil
}

// Verify checks code against the latest record for the gate pass. The match
// is an exact fixed-length string comparison. Success marks the record
// verified and flips the pass's parent_verification flag in one transaction;
// the record is terminal afterwards.
func (s *Service) Verify(gatePassID uint, code string) error {
	if len(code) != 6 {
		return gperr.Validation("verification code must be 6 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return gperr.Validation("verification code must be 6 digits")
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		pv, err := repo.LatestByGatePass(gatePassID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &gperr.NotFound{Entity: "parent verification", Key: gatePassID}
			}
			return err
		}
		if pv.IsVerified {
			return gperr.ErrAlreadyVerified
		}
		if pv.VerificationCode != code {
			return gperr.ErrCodeMismatch
		}

		now := time.Now()
		pv.IsVerified = true
		pv.VerifiedAt = &now
		if err := repo.SaveVerification(pv); err != nil {
			return err
		}

		return tx.Model(&models.GatePass{}).
			Where("id = ?", gatePassID).
			Update("parent_verification", true).Error
	})
}

// IsSatisfied reports whether the gate pass has a completed verification,
// consulting only the latest record.
func (s *Service) IsSatisfied(tx *gorm.DB, gatePassID uint) (bool, error) {
	pv, err := s.repo.WithTx(tx).LatestByGatePass(gatePassID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return pv.IsVerified, nil
}
