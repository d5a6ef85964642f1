package verification

import (
	"testing"
	"time"

	"gatepass/internal/gperr"
	"gatepass/internal/models"
	"gatepass/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newService(t *testing.T) (*Service, *gorm.DB, *models.GatePass) {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Student{}, &models.GatePass{}, &models.ParentVerification{},
	))

	user := &models.User{Username: "s1", Password: "x", Role: models.RoleStudent, IsApproved: true, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	student := &models.Student{
		UserID: user.ID, HallTicketNo: "22D01A0001", StudentName: "Asha Rao",
		RoomNo: "B-12", ParentName: "R Rao", ParentMobile: "9000000001",
	}
	require.NoError(t, db.Create(student).Error)
	gp := &models.GatePass{
		StudentID:          student.ID,
		OutingDate:         time.Now().AddDate(0, 0, 1),
		OutingTime:         "09:00",
		ExpectedReturnDate: time.Now().AddDate(0, 0, 1),
		ExpectedReturnTime: "18:00",
		Purpose:            "Home",
		Status:             models.StatusWardenApproved,
	}
	require.NoError(t, db.Create(gp).Error)

	svc := NewService(db,
		repository.NewVerificationRepository(db),
		repository.NewGatePassRepository(db),
		repository.NewStudentRepository(db))
	return svc, db, gp
}

func TestIssueAndVerify(t *testing.T) {
	svc, db, gp := newService(t)

	code, mobile, err := svc.Reissue(gp.ID)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, "9000000001", mobile)

	require.NoError(t, svc.Verify(gp.ID, code))

	var pv models.ParentVerification
	require.NoError(t, db.Where("gate_pass_id = ?", gp.ID).First(&pv).Error)
	assert.True(t, pv.IsVerified)
	assert.NotNil(t, pv.VerifiedAt)

	var updated models.GatePass
	require.NoError(t, db.First(&updated, gp.ID).Error)
	assert.True(t, updated.ParentVerification)

	ok, err := svc.IsSatisfied(db, gp.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReissueSupersedesOldCode(t *testing.T) {
	svc, db, gp := newService(t)

	first, _, err := svc.Reissue(gp.ID)
	require.NoError(t, err)
	second, _, err := svc.Reissue(gp.ID)
	require.NoError(t, err)

	// Only the latest code exists; the superseded row is gone.
	var count int64
	require.NoError(t, db.Model(&models.ParentVerification{}).
		Where("gate_pass_id = ?", gp.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	if first != second {
		assert.ErrorIs(t, svc.Verify(gp.ID, first), gperr.ErrCodeMismatch)
	}
	assert.NoError(t, svc.Verify(gp.ID, second))
}

func TestVerifyWrongCode(t *testing.T) {
	svc, _, gp := newService(t)

	code, _, err := svc.Reissue(gp.ID)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	assert.ErrorIs(t, svc.Verify(gp.ID, wrong), gperr.ErrCodeMismatch)

	// The record stays usable after a mismatch.
	assert.NoError(t, svc.Verify(gp.ID, code))
}

func TestVerifyRejectsMalformedCode(t *testing.T) {
	svc, _, gp := newService(t)

	var ve *gperr.ValidationError
	assert.ErrorAs(t, svc.Verify(gp.ID, "12345"), &ve)
	assert.ErrorAs(t, svc.Verify(gp.ID, "12345a"), &ve)
	assert.ErrorAs(t, svc.Verify(gp.ID, ""), &ve)
}

func TestVerifyTwice(t *testing.T) {
	svc, _, gp := newService(t)

	code, _, err := svc.Reissue(gp.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Verify(gp.ID, code))

	assert.ErrorIs(t, svc.Verify(gp.ID, code), gperr.ErrAlreadyVerified)
}

func TestReissueAfterVerificationFails(t *testing.T) {
	svc, _, gp := newService(t)

	code, _, err := svc.Reissue(gp.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Verify(gp.ID, code))

	_, _, err = svc.Reissue(gp.ID)
	assert.ErrorIs(t, err, gperr.ErrAlreadyVerified)
}

func TestVerifyWithoutIssuedCode(t *testing.T) {
	svc, db, gp := newService(t)

	var nf *gperr.NotFound
	assert.ErrorAs(t, svc.Verify(gp.ID, "123456"), &nf)

	ok, err := svc.IsSatisfied(db, gp.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReissueUnknownGatePass(t *testing.T) {
	svc, _, _ := newService(t)

	var nf *gperr.NotFound
	_, _, err := svc.Reissue(4242)
	assert.ErrorAs(t, err, &nf)
}
