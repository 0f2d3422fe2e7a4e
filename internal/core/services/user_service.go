package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/accounting_core/internal/apperrors"
	"github.com/SscSPs/accounting_core/internal/core/domain"
	portsrepo "github.com/SscSPs/accounting_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/accounting_core/internal/core/ports/services"
	"github.com/SscSPs/accounting_core/internal/dto"
)

var ErrUserNotFound = fmt.Errorf("%w: user not found", apperrors.ErrNotFound)

// userService manages users. Contact fields are encrypted by the repository,
// so the service only ever handles plaintext.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	now      func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, now: time.Now}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	now := s.now()
	userID := uuid.NewString()
	if creatorUserID == "" {
		creatorUserID = userID
	}

	user := domain.User{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       trimmedOrNil(req.Phone),
		Address:     trimmedOrNil(req.Address),
		Notes:       trimmedOrNil(req.Notes),
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to create user")
		return nil, fmt.Errorf("failed to create user in service: %w", err)
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID))
	return &user, nil
}

// GetUserByID returns ErrUserNotFound for unknown or deleted users.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) || (err == nil && user == nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID in service: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users in service: %w", err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		user.Phone = trimmedOrNil(req.Phone)
	}
	if req.Address != nil {
		user.Address = trimmedOrNil(req.Address)
	}
	if req.Notes != nil {
		user.Notes = trimmedOrNil(req.Notes)
	}
	user.Touch(requestingUserID, s.now())

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user in service: %w", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, s.now(), requestingUserID); err != nil {
		return fmt.Errorf("failed to delete user in service: %w", err)
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}
