package services

import (
	"context"
	"testing"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminRepo struct {
	admins map[string]*models.AdminUser
}

func (r *fakeAdminRepo) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	admin, ok := r.admins[email]
	if !ok {
		return nil, repositories.ErrAdminNotFound
	}
	copied := *admin
	return &copied, nil
}

func newAuthServiceForTest(t *testing.T, password string) (AuthService, *fakeParticipantRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	adminRepo := &fakeAdminRepo{admins: map[string]*models.AdminUser{
		"admin@example.com": {
			ID:           "admin-1",
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			Role:         "admin",
		},
	}}
	participantRepo := newFakeParticipantRepo()
	return NewAuthService(adminRepo, participantRepo), participantRepo
}

func TestAdminLogin_Success(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "s3cret")

	admin, err := svc.AdminLogin(context.Background(), "admin@example.com", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "admin-1", admin.ID)
	assert.Empty(t, admin.PasswordHash, "hash must not leak out of the service")
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "s3cret")

	_, err := svc.AdminLogin(context.Background(), "admin@example.com", "wrong")

	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestAdminLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "s3cret")

	_, err := svc.AdminLogin(context.Background(), "nobody@example.com", "s3cret")

	// Несуществующий email неотличим от неверного пароля.
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}

func TestParticipantLogin_Approved(t *testing.T) {
	svc, participants := newAuthServiceForTest(t, "s3cret")
	p := participants.add(101, models.CheckStatusApproved, models.GenderFemale)

	got, err := svc.ParticipantLogin(context.Background(), 101)

	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestParticipantLogin_PendingRejected(t *testing.T) {
	svc, participants := newAuthServiceForTest(t, "s3cret")
	participants.add(101, models.CheckStatusPending, models.GenderFemale)

	_, err := svc.ParticipantLogin(context.Background(), 101)

	assert.ErrorIs(t, err, ErrParticipantNotApproved)
}

func TestParticipantLogin_UnknownNumber(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, "s3cret")

	_, err := svc.ParticipantLogin(context.Background(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}
