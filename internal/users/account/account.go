// Copyright (c) 2026 Qumran. All rights reserved.

/*
Package account owns the dashboard accounts stored in Postgres.

Accounts are provisioned from the command line (cmd/admin); there is no
self-service registration. The auth package reads them through a narrow
lookup contract to verify credentials.
*/
package account

import (
	"context"
	"time"

	"github.com/qumran/qumran/internal/platform/sec"
)

// Resource names accounts in error messages.
const Resource = "Account"

// # Domain Entities

// User is a dashboard account.
type User struct {
	ID           string       `db:"id"            json:"id"`
	Username     string       `db:"username"      json:"username"`
	Email        string       `db:"email"         json:"email"`
	PasswordHash string       `db:"password_hash" json:"-"`
	Role         sec.UserRole `db:"role"          json:"role"`
	CreatedAt    time.Time    `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"    json:"updated_at"`
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
)

// # Limits

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLength = 72
)

// # Repository Contracts

// Repository defines the persistence contract for accounts.
type Repository interface {

	/*
		FindByID returns the account with the given id.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByLogin returns the account whose username or email equals login,
		case-insensitively.

		Returns:
		  - error: apperr.NotFound when absent
	*/
	FindByLogin(context context.Context, login string) (*User, error)

	/*
		Save inserts the account or, when the username already exists,
		replaces its email, password hash and role.

		Returns:
		  - bool: true when a new row was created
	*/
	Save(context context.Context, user *User) (bool, error)
}
