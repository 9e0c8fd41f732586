package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

const bcryptCost = 12

var (
	usernameRe = regexp.MustCompile(`^[a-z0-9_.-]{3,30}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// User is a marketplace account. Buyers and sellers are the same kind
// of user; anyone can list products.
type User struct {
	shared.BaseAggregateRoot
	Username     string     `gorm:"type:varchar(30);not null;uniqueIndex"`
	Email        string     `gorm:"type:varchar(255);index"`
	PasswordHash string     `gorm:"type:varchar(100);not null"`
	DisplayName  string     `gorm:"type:varchar(100)"`
	IsStaff      bool       `gorm:"not null;default:false"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password. Usernames are
// lowercased so lookups are case-insensitive.
func NewUser(username, email, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernameRe.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-30 chars of a-z, 0-9, '_', '.', '-'")
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if !emailRe.MatchString(email) {
			return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
		}
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		PasswordHash:      string(hash),
		Status:            UserStatusActive,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// IsBanned reports whether the account is banned
func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}

// Ban bans the account. Staff accounts cannot be banned.
func (u *User) Ban() error {
	if u.IsStaff {
		return shared.NewDomainError("CANNOT_BAN_STAFF", "Staff accounts cannot be banned")
	}
	if u.Status == UserStatusBanned {
		return shared.NewDomainError("ALREADY_BANNED", "User is already banned")
	}
	u.Status = UserStatusBanned
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// Unban restores a banned account
func (u *User) Unban() error {
	if u.Status != UserStatusBanned {
		return shared.NewDomainError("NOT_BANNED", "User is not banned")
	}
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
