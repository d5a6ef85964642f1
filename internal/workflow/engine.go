// Package workflow implements the gate pass state machine:
//
//	pending -> warden_approved -> security_approved -> returned -> completed
//	pending -> warden_rejected (terminal)
//
// Every transition runs in one transaction with the gate pass row locked, so
// the mutation and its dependent verification/notification rows commit
// together and concurrent attempts on the same pass serialize at the storage
// layer. A lost race re-reads state under the lock and fails the guard.
package workflow

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gatepass/internal/gperr"
	"gatepass/internal/models"
	"gatepass/internal/notification"
	"gatepass/internal/repository"
	"gatepass/internal/utils"
	"gatepass/internal/verification"

	"gorm.io/gorm"
)

// Actor identifies who is attempting a transition.
type Actor struct {
	UserID uint
	Role   string
}

// Workflow actions, used in InvalidTransition reporting.
const (
	ActionCreate         = "create"
	ActionApprove        = "approve"
	ActionReject         = "reject"
	ActionSecurityExit   = "security_exit"
	ActionSecurityReturn = "security_return"
	ActionComplete       = "complete"
	ActionPurge          = "purge"
)

type CreateRequest struct {
	OutingDate         time.Time
	OutingTime         string
	ExpectedReturnDate time.Time
	ExpectedReturnTime string
	Purpose            string
	Photo              string
}

type DecisionRequest struct {
	Action string // approve or reject
	// ParentVerificationDone records that the warden confirmed parental
	// consent out of band; when false an approval issues a fresh code.
	ParentVerificationDone bool
	RejectionReason        string
}

type Engine struct {
	db       *gorm.DB
	users    repository.UserRepository
	students repository.StudentRepository
	passes   repository.GatePassRepository
	verifier *verification.Service
	notifier *notification.Dispatcher

	// deliverCode runs after commit; delivery failure never rolls back the
	// transition.
	deliverCode func(parentMobile, code string) error

	now func() time.Time
}

func NewEngine(db *gorm.DB, users repository.UserRepository, students repository.StudentRepository,
	passes repository.GatePassRepository, verifier *verification.Service,
	notifier *notification.Dispatcher) *Engine {
	return &Engine{
		db:          db,
		users:       users,
		students:    students,
		passes:      passes,
		verifier:    verifier,
		notifier:    notifier,
		deliverCode: utils.DeliverParentCode,
		now:         time.Now,
	}
}

// SetCodeDeliverer overrides the post-commit code delivery hook.
func (e *Engine) SetCodeDeliverer(fn func(parentMobile, code string) error) {
	e.deliverCode = fn
}

// SetClock overrides the engine clock.
func (e *Engine) SetClock(fn func() time.Time) {
	e.now = fn
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// normalizeClock reformats a 24h clock string zero padded so stored values
// compare lexically in chronological order.
func normalizeClock(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", gperr.Validation("times must be HH:MM in 24h form")
	}
	return t.Format("15:04"), nil
}

// Create validates and persists a new request in state pending and notifies
// all active wardens.
func (e *Engine) Create(actor Actor, req CreateRequest) (*models.GatePass, error) {
	if actor.Role != models.RoleStudent {
		return nil, &gperr.InvalidTransition{Action: ActionCreate, Reason: "only students can request a gate pass"}
	}
	if req.Purpose == "" {
		return nil, gperr.Validation("purpose is required")
	}
	if req.OutingTime == "" || req.ExpectedReturnTime == "" {
		return nil, gperr.Validation("outing and expected return times are required")
	}
	outTime, err := normalizeClock(req.OutingTime)
	if err != nil {
		return nil, err
	}
	retTime, err := normalizeClock(req.ExpectedReturnTime)
	if err != nil {
		return nil, err
	}

	outing := dateOnly(req.OutingDate)
	ret := dateOnly(req.ExpectedReturnDate)
	today := dateOnly(e.now())

	if outing.Before(today) {
		return nil, gperr.Validation("outing date cannot be in the past")
	}
	if ret.Before(outing) {
		return nil, gperr.Validation("expected return date cannot be before outing date")
	}
	if outing.Equal(ret) && outTime >= retTime {
		return nil, gperr.Validation("expected return time must be after outing time")
	}

	student, err := e.students.GetStudentByUserID(actor.UserID)
	if err != nil {
		return nil, &gperr.NotFound{Entity: "student profile", Key: actor.UserID}
	}

	gp := &models.GatePass{
		StudentID:          student.ID,
		OutingDate:         outing,
		OutingTime:         outTime,
		ExpectedReturnDate: ret,
		ExpectedReturnTime: retTime,
		Purpose:            req.Purpose,
		Photo:              req.Photo,
		Status:             models.StatusPending,
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := e.passes.WithTx(tx).CreateGatePass(gp); err != nil {
			return err
		}
		return e.notifyWardens(tx, gp.ID, models.NotificationNewRequest,
			fmt.Sprintf("New gate pass request from %s (%s) for %s",
				student.StudentName, student.HallTicketNo, outing.Format("2006-01-02")))
	})
	if err != nil {
		return nil, err
	}
	return gp, nil
}

// WardenDecide applies an approve or reject decision to a pending request.
func (e *Engine) WardenDecide(actor Actor, gatePassID uint, req DecisionRequest) (*models.GatePass, error) {
	if actor.Role != models.RoleWarden {
		return nil, &gperr.InvalidTransition{Action: req.Action, Reason: "only wardens can decide gate pass requests"}
	}
	if req.Action != ActionApprove && req.Action != ActionReject {
		return nil, gperr.Validation("action must be approve or reject")
	}
	if req.Action == ActionReject && req.RejectionReason == "" {
		return nil, gperr.Validation("rejection reason is required when rejecting a request")
	}

	var (
		gp         *models.GatePass
		issuedCode string
		parentTo   string
	)

	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		gp, err = e.lockPass(tx, gatePassID)
		if err != nil {
			return err
		}
		if gp.Status != models.StatusPending {
			return &gperr.InvalidTransition{
				Current: gp.Status, Action: req.Action,
				Reason: "only pending requests can be decided",
			}
		}

		student, err := e.students.WithTx(tx).GetStudentByID(gp.StudentID)
		if err != nil {
			return &gperr.NotFound{Entity: "student", Key: gp.StudentID}
		}

		if req.Action == ActionReject {
			gp.Status = models.StatusWardenRejected
			gp.WardenApproval = false
			gp.WardenRejectionReason = req.RejectionReason
			if err := e.passes.WithTx(tx).SaveGatePass(gp); err != nil {
				return err
			}
			return e.notifier.Notify(tx, student.UserID, gp.ID, models.NotificationRejected,
				"Your gate pass request was rejected: "+req.RejectionReason)
		}

		gp.Status = models.StatusWardenApproved
		gp.WardenApproval = true
		gp.ParentVerification = req.ParentVerificationDone
		if err := e.passes.WithTx(tx).SaveGatePass(gp); err != nil {
			return err
		}

		if !req.ParentVerificationDone {
			issuedCode, err = e.verifier.Issue(tx, gp.ID, student.ParentMobile)
			if err != nil {
				return err
			}
			parentTo = student.ParentMobile
			if err := e.notifier.Notify(tx, student.UserID, gp.ID, models.NotificationVerification,
				"A verification code was sent to your parent for gate pass approval"); err != nil {
				return err
			}
		}

		return e.notifier.Notify(tx, student.UserID, gp.ID, models.NotificationApproved,
			"Your gate pass request was approved by the warden")
	})
	if err != nil {
		return nil, err
	}

	if issuedCode != "" {
		go func(mobile, code string) {
			if err := e.deliverCode(mobile, code); err != nil {
				log.Printf("Failed to deliver verification code to %s: %v", mobile, err)
			}
		}(parentTo, issuedCode)
	}
	return gp, nil
}

// SecurityExit records the physical exit. It requires completed parent
// verification, either via the warden's confirmation flag or a verified code.
func (e *Engine) SecurityExit(actor Actor, gatePassID uint) (*models.GatePass, error) {
	if actor.Role != models.RoleSecurity {
		return nil, &gperr.InvalidTransition{Action: ActionSecurityExit, Reason: "only security can record an exit"}
	}

	var gp *models.GatePass
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		gp, err = e.lockPass(tx, gatePassID)
		if err != nil {
			return err
		}
		if gp.Status != models.StatusWardenApproved {
			return &gperr.InvalidTransition{
				Current: gp.Status, Action: ActionSecurityExit,
				Reason: "exit can only be recorded for warden approved passes",
			}
		}

		verified := gp.ParentVerification
		if !verified {
			verified, err = e.verifier.IsSatisfied(tx, gp.ID)
			if err != nil {
				return err
			}
		}
		if !verified {
			return &gperr.InvalidTransition{
				Current: gp.Status, Action: ActionSecurityExit,
				Reason: "parent verification not completed",
			}
		}

		now := e.now()
		exitDate := dateOnly(now)
		gp.Status = models.StatusSecurityApproved
		gp.SecurityApproval = true
		gp.SecurityExitDate = &exitDate
		gp.SecurityExitTime = now.Format("15:04")
		if err := e.passes.WithTx(tx).SaveGatePass(gp); err != nil {
			return err
		}

		student, err := e.students.WithTx(tx).GetStudentByID(gp.StudentID)
		if err != nil {
			return &gperr.NotFound{Entity: "student", Key: gp.StudentID}
		}
		return e.notifier.Notify(tx, student.UserID, gp.ID, models.NotificationExit,
			"Your exit was recorded by security at "+gp.SecurityExitTime)
	})
	if err != nil {
		return nil, err
	}
	return gp, nil
}

// SecurityReturn records the physical return and notifies student and wardens.
func (e *Engine) SecurityReturn(actor Actor, gatePassID uint, notes string) (*models.GatePass, error) {
	if actor.Role != models.RoleSecurity {
		return nil, &gperr.InvalidTransition{Action: ActionSecurityReturn, Reason: "only security can record a return"}
	}

	var gp *models.GatePass
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		gp, err = e.lockPass(tx, gatePassID)
		if err != nil {
			return err
		}
		if gp.Status != models.StatusSecurityApproved {
			return &gperr.InvalidTransition{
				Current: gp.Status, Action: ActionSecurityReturn,
				Reason: "return can only be recorded for students who are out",
			}
		}

		now := e.now()
		returnDate := dateOnly(now)
		gp.Status = models.StatusReturned
		gp.ActualReturnDate = &returnDate
		gp.ActualReturnTime = now.Format("15:04")
		gp.ReturnNotes = notes
		if err := e.passes.WithTx(tx).SaveGatePass(gp); err != nil {
			return err
		}

		student, err := e.students.WithTx(tx).GetStudentByID(gp.StudentID)
		if err != nil {
			return &gperr.NotFound{Entity: "student", Key: gp.StudentID}
		}
		if err := e.notifier.Notify(tx, student.UserID, gp.ID, models.NotificationReturn,
			"Your return was recorded by security at "+gp.ActualReturnTime); err != nil {
			return err
		}
		return e.notifyWardens(tx, gp.ID, models.NotificationReturn,
			fmt.Sprintf("%s (%s) has returned", student.StudentName, student.HallTicketNo))
	})
	if err != nil {
		return nil, err
	}
	return gp, nil
}

// Complete marks a returned pass as completed. Completing an already
// completed pass is a no-op returning the pass unchanged; any other state is
// a guard failure.
func (e *Engine) Complete(actor Actor, gatePassID uint) (*models.GatePass, error) {
	if actor.Role != models.RoleSuperadmin {
		return nil, &gperr.InvalidTransition{Action: ActionComplete, Reason: "only admins can complete a gate pass"}
	}

	var gp *models.GatePass
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		gp, err = e.lockPass(tx, gatePassID)
		if err != nil {
			return err
		}
		if gp.Status == models.StatusCompleted {
			return nil
		}
		if gp.Status != models.StatusReturned {
			return &gperr.InvalidTransition{
				Current: gp.Status, Action: ActionComplete,
				Reason: "only returned passes can be completed",
			}
		}
		gp.Status = models.StatusCompleted
		return e.passes.WithTx(tx).SaveGatePass(gp)
	})
	if err != nil {
		return nil, err
	}
	return gp, nil
}

// Purge deletes a gate pass and its dependent verification and notification
// rows in one transaction, so no orphaned child rows survive.
func (e *Engine) Purge(actor Actor, gatePassID uint) error {
	if actor.Role != models.RoleSuperadmin {
		return &gperr.InvalidTransition{Action: ActionPurge, Reason: "only admins can purge gate passes"}
	}
	return e.db.Transaction(func(tx *gorm.DB) error {
		if _, err := e.lockPass(tx, gatePassID); err != nil {
			return err
		}
		return e.passes.WithTx(tx).DeleteCascade(gatePassID)
	})
}

func (e *Engine) lockPass(tx *gorm.DB, id uint) (*models.GatePass, error) {
	gp, err := e.passes.WithTx(tx).GetGatePassForUpdate(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &gperr.NotFound{Entity: "gate pass", Key: id}
		}
		return nil, err
	}
	return gp, nil
}

func (e *Engine) notifyWardens(tx *gorm.DB, gatePassID uint, notificationType, message string) error {
	wardens, err := e.users.WithTx(tx).FindActiveByRole(models.RoleWarden)
	if err != nil {
		return err
	}
	for _, w := range wardens {
		if err := e.notifier.Notify(tx, w.ID, gatePassID, notificationType, message); err != nil {
			return err
		}
	}
	return nil
}
