package service

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/bookmarket/internal/market/authz"
	"github.com/louisbranch/bookmarket/internal/market/storage"
	"github.com/louisbranch/bookmarket/internal/market/user"
	apperrors "github.com/louisbranch/bookmarket/internal/platform/errors"
)

// RegisterInput describes a registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new account with the default USER role.
// Registration is a public action; roles are never caller-selectable here.
func (s *Service) Register(ctx context.Context, input RegisterInput) (user.User, error) {
	created, err := user.CreateUser(user.CreateUserInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      user.RoleUser,
	}, s.clock, s.idGenerator)
	if err != nil {
		return user.User{}, err
	}

	if err := s.stores.Users.CreateUser(ctx, created); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return user.User{}, apperrors.New(apperrors.CodeUserEmailTaken, "email is already registered")
		}
		return user.User{}, mapStorageErr("create user", err)
	}

	created.PasswordHash = ""
	return created, nil
}

// Login verifies credentials and issues a signed token.
// A missing account and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, user.User, error) {
	invalid := apperrors.New(apperrors.CodeInvalidCredentials, "email or password is incorrect")

	account, err := s.stores.Users.GetUserByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", user.User{}, invalid
		}
		return "", user.User{}, mapStorageErr("look up user", err)
	}
	if !user.VerifyPassword(account.PasswordHash, password) {
		return "", user.User{}, invalid
	}

	signed, err := s.tokens.Issue(account.Email, account.Role)
	if err != nil {
		return "", user.User{}, mapStorageErr("issue token", err)
	}

	account.PasswordHash = ""
	return signed, account, nil
}

// AuthenticateToken verifies a token and resolves it to a caller identity.
// The role comes from the stored account, not the token, so a role change
// takes effect within one token lifetime at most.
func (s *Service) AuthenticateToken(ctx context.Context, raw string) (authz.Caller, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return authz.Caller{}, err
	}

	account, err := s.stores.Users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return authz.Caller{}, apperrors.New(apperrors.CodeUnauthenticated, "token subject no longer exists")
		}
		return authz.Caller{}, mapStorageErr("resolve token subject", err)
	}

	return authz.Caller{
		ID:            account.ID,
		Role:          account.Role,
		Authenticated: true,
	}, nil
}

// GetProfile returns an account's details to its owner or an admin.
func (s *Service) GetProfile(ctx context.Context, targetID string, caller authz.Caller) (user.User, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		targetID = caller.ID
	}
	if err := authz.Authorize(caller, authz.ActionViewProfile, targetID); err != nil {
		return user.User{}, err
	}

	account, err := s.stores.Users.GetUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, errNotFound("user not found")
		}
		return user.User{}, mapStorageErr("get user", err)
	}
	account.PasswordHash = ""
	return account, nil
}

// UpdateProfileInput describes an edit of the caller-visible profile fields.
type UpdateProfileInput struct {
	FirstName         string
	LastName          string
	ProfilePictureURL string
	Description       string
}

// UpdateProfile edits an account's profile fields for its owner or an admin.
func (s *Service) UpdateProfile(ctx context.Context, targetID string, input UpdateProfileInput, caller authz.Caller) error {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		targetID = caller.ID
	}
	if err := authz.Authorize(caller, authz.ActionUpdateProfile, targetID); err != nil {
		return err
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return user.ErrEmptyName
	}

	err := s.stores.Users.UpdateProfile(
		ctx,
		targetID,
		input.FirstName,
		input.LastName,
		input.ProfilePictureURL,
		input.Description,
		s.clock().UTC(),
	)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errNotFound("user not found")
		}
		return mapStorageErr("update profile", err)
	}
	return nil
}
