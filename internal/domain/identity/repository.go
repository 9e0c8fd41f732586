package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileRepository persists user profiles
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*Profile, error)
	FindByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*Profile, error)
	Save(ctx context.Context, profile *Profile) error
}

// ActivityRepository persists last-seen records
type ActivityRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*UserActivity, error)
	FindByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*UserActivity, error)
	Save(ctx context.Context, activity *UserActivity) error
}
