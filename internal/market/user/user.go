// Package user provides marketplace account management.
package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
	"github.com/louisbranch/bookmarket/internal/platform/id"
	"github.com/louisbranch/bookmarket/internal/platform/money"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 8

var (
	// ErrInvalidEmail indicates an email that does not match the required format.
	ErrInvalidEmail = apperrors.New(apperrors.CodeUserEmailInvalid, "email address is invalid")
	// ErrEmptyName indicates a missing first or last name.
	ErrEmptyName = apperrors.New(apperrors.CodeUserEmptyName, "first and last name are required")
	// ErrPasswordTooShort indicates a password below the minimum length.
	ErrPasswordTooShort = apperrors.WithMetadata(
		apperrors.CodeUserPasswordTooShort,
		fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		map[string]string{"MinLength": fmt.Sprintf("%d", MinPasswordLength)},
	)

	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Role is the closed set of account privilege levels.
type Role int

const (
	// RoleUser is the default role for registered accounts.
	RoleUser Role = iota
	// RoleAdmin grants every mutating marketplace action.
	RoleAdmin
)

// String returns the stable storage form of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleUser:
		return "USER"
	default:
		return "USER"
	}
}

// ParseRole converts a stored role string back to a Role.
func ParseRole(value string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "USER":
		return RoleUser, nil
	default:
		return RoleUser, apperrors.WithMetadata(
			apperrors.CodeUserInvalidRole,
			fmt.Sprintf("unknown role %q", value),
			map[string]string{"Role": value},
		)
	}
}

// User represents one marketplace account record.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	FirstName         string
	LastName          string
	Role              Role
	Balance           money.Amount
	Rating            int
	ProfilePictureURL string
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateUserInput describes the metadata needed to register an account.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
}

// NormalizeCreateUserInput validates and canonicalizes registration input.
// Emails are lowercased so uniqueness checks are case-insensitive.
func NormalizeCreateUserInput(input CreateUserInput) (CreateUserInput, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	if !emailPattern.MatchString(input.Email) {
		return CreateUserInput{}, ErrInvalidEmail
	}
	if input.FirstName == "" || input.LastName == "" {
		return CreateUserInput{}, ErrEmptyName
	}
	if len(input.Password) < MinPasswordLength {
		return CreateUserInput{}, ErrPasswordTooShort
	}
	return input, nil
}

// CreateUser creates a durable account record from validated input.
// The password is hashed with bcrypt; the plaintext is never retained.
func CreateUser(input CreateUserInput, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateUserInput(input)
	if err != nil {
		return User{}, err
	}

	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(normalized.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	createdAt := now().UTC()
	return User{
		ID:           userID,
		Email:        normalized.Email,
		PasswordHash: string(hash),
		FirstName:    normalized.FirstName,
		LastName:     normalized.LastName,
		Role:         normalized.Role,
		Balance:      money.Zero,
		Rating:       0,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// VerifyPassword reports whether the plaintext password matches the stored hash.
func VerifyPassword(passwordHash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

// NormalizeEmail canonicalizes an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
