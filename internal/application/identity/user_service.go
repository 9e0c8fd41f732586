package identity

import (
	"context"
	"time"

	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/comercium/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles moderation actions on accounts
type UserService struct {
	userRepo   identity.UserRepository
	blacklist  auth.TokenBlacklist
	sessionTTL time.Duration // how long revocation markers must outlive tokens
	logger     *zap.Logger
}

// NewUserService creates a new user service. sessionTTL should match the
// refresh token expiration.
func NewUserService(userRepo identity.UserRepository, blacklist auth.TokenBlacklist, sessionTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Ban bans a user account. Staff only; also revokes the user's sessions.
func (s *UserService) Ban(ctx context.Context, staffID, targetID uuid.UUID) error {
	staff, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		return shared.ErrUnauthorized
	}
	if !staff.IsStaff {
		return shared.ErrForbidden
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := target.Ban(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, target); err != nil {
		s.logger.Error("Failed to ban user", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to ban user")
	}

	// Kill every outstanding session of the banned user
	if s.blacklist != nil {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, targetID.String(), s.sessionTTL); err != nil {
			s.logger.Warn("Failed to invalidate sessions of banned user", zap.Error(err))
		}
	}

	s.logger.Info("User banned",
		zap.String("staff_id", staffID.String()),
		zap.String("user_id", targetID.String()))
	return nil
}

// Unban restores a banned account. Staff only.
func (s *UserService) Unban(ctx context.Context, staffID, targetID uuid.UUID) error {
	staff, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		return shared.ErrUnauthorized
	}
	if !staff.IsStaff {
		return shared.ErrForbidden
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return shared.ErrNotFound
	}

	if err := target.Unban(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, target); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unban user")
	}

	s.logger.Info("User unbanned",
		zap.String("staff_id", staffID.String()),
		zap.String("user_id", targetID.String()))
	return nil
}
