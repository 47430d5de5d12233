// Copyright (c) 2026 Qumran. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/internal/platform/validate"
	"github.com/qumran/qumran/pkg/uuid"
)

// # Service Layer

// Service provisions and reads dashboard accounts.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ProvisionInput describes the desired state of an account.
type ProvisionInput struct {
	Username string
	Email    string
	Password string
	Role     sec.UserRole
}

/*
Provision creates the account or brings an existing one (same username, any
letter case) to the given email, password and role.

Returns:
  - *User: the stored account
  - bool: true when the account did not exist before
  - error: validation, conflict (email owned by another account) or storage
*/
func (service *Service) Provision(context context.Context, input ProvisionInput) (*User, bool, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := validateProvision(input); err != nil {
		return nil, false, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, false, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}

	created, err := service.repo.Save(context, user)
	if err != nil {
		return nil, false, err
	}

	event := "account_updated"
	if created {
		event = "account_created"
	}
	service.logger.InfoContext(context, event,
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return user, created, nil
}

// Get returns the account with the given id. A malformed id is NotFound
// without a query, since the column is typed uuid.
func (service *Service) Get(context context.Context, id string) (*User, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound(Resource)
	}
	return service.repo.FindByID(context, id)
}

func validateProvision(input ProvisionInput) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, MinUsernameLength).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordLength, fmt.Sprintf("Maximum %d bytes", MaxPasswordLength)).
		OneOf(FieldRole, string(input.Role), sec.RoleNames()...)
	return validator.Err()
}
