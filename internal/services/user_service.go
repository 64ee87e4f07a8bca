package services

import (
	"context"
	"log"
	"strings"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/authz"
	"taskboard/internal/models"
	"taskboard/internal/repositories"
)

// AdminUserPatch is a partial update from the admin console; nil fields
// stay untouched.
type AdminUserPatch struct {
	DisplayName *string
	AvatarURL   *string
	Email       *string
	Role        *string
	Blocked     *bool
}

// ProfilePatch is the self-service subset.
type ProfilePatch struct {
	DisplayName *string
	AvatarURL   *string
}

type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, login, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, current, newPassword string) error

	AdminList(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	AdminUpdate(ctx context.Context, id int64, patch AdminUserPatch) (*models.User, error)

	StoreRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	ClearRefresh(ctx context.Context, userID int64) error
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService) UserService {
	return &userService{repo: repo, emailService: emailService, authService: authService}
}

func (s *userService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if len(username) < 3 {
		return nil, apperrors.Validation("invalid_input", "username must be at least 3 characters")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.Validation("weak_password", "password must be at least 6 characters")
	}

	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         authz.RoleCustomer,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.emailService != nil && user.Email != "" {
		// best effort; registration stands either way
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Username); err != nil {
			log.Printf("[user][register] welcome email to %s failed: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if len(login) < 3 || len(password) < 6 {
		return nil, apperrors.Validation("invalid_credentials", "invalid username or password")
	}
	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil || strings.TrimSpace(user.PasswordHash) == "" {
		return nil, apperrors.Unauthorized("invalid_credentials", "invalid username or password")
	}
	if err := s.authService.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized("invalid_credentials", "invalid username or password")
	}
	if user.Blocked {
		return nil, apperrors.Forbidden("account is blocked")
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("not_found", "user not found")
	}
	if patch.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.Validation("weak_password", "password must be at least 6 characters")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("not_found", "user not found")
	}
	if err := s.authService.CheckPassword(user.PasswordHash, current); err != nil {
		return apperrors.Validation("invalid_current", "current password is incorrect")
	}
	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

func (s *userService) AdminList(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	if filter.Role != "" && !authz.IsValidRole(filter.Role) {
		return nil, apperrors.Validation("invalid_role", "unknown role")
	}
	return s.repo.List(ctx, filter)
}

func (s *userService) AdminUpdate(ctx context.Context, id int64, patch AdminUserPatch) (*models.User, error) {
	if patch.DisplayName == nil && patch.AvatarURL == nil && patch.Email == nil &&
		patch.Role == nil && patch.Blocked == nil {
		return nil, apperrors.Validation("no_fields", "nothing to update")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("not_found", "user not found")
	}
	if patch.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*patch.Role))
		if !authz.IsValidRole(role) {
			return nil, apperrors.Validation("invalid_role", "unknown role")
		}
		user.Role = role
	}
	if patch.Blocked != nil {
		user.Blocked = *patch.Blocked
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) StoreRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	return s.repo.UpdateRefresh(ctx, userID, token, expiresAt)
}

func (s *userService) ClearRefresh(ctx context.Context, userID int64) error {
	return s.repo.ClearRefresh(ctx, userID)
}

func (s *userService) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return s.repo.FindByRefreshToken(ctx, token)
}
