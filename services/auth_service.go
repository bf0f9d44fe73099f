package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
	"golang.org/x/crypto/bcrypt"
)

// AuthService аутентифицирует администраторов (email + пароль) и участников
// (по номеру). Выпуск JWT - забота HTTP-слоя.
type AuthService interface {
	AdminLogin(ctx context.Context, email, password string) (*models.AdminUser, error)
	ParticipantLogin(ctx context.Context, participantNumber int) (*models.Participant, error)
}

type authService struct {
	adminRepo       repositories.AdminRepository
	participantRepo repositories.ParticipantRepository
}

func NewAuthService(adminRepo repositories.AdminRepository, participantRepo repositories.ParticipantRepository) AuthService {
	return &authService{
		adminRepo:       adminRepo,
		participantRepo: participantRepo,
	}
}

func (s *authService) AdminLogin(ctx context.Context, email, password string) (*models.AdminUser, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	admin.PasswordHash = ""

	return admin, nil
}

// ParticipantLogin разрешает номер участника в сессию. Участник без
// одобренной проверки войти не может.
func (s *authService) ParticipantLogin(ctx context.Context, participantNumber int) (*models.Participant, error) {
	participant, err := s.participantRepo.FindByNumber(ctx, participantNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find participant by number: %w", err)
	}

	if participant.BackgroundCheckStatus != models.CheckStatusApproved {
		return nil, ErrParticipantNotApproved
	}

	return participant, nil
}
