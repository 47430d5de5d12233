// Copyright (c) 2026 Qumran. All rights reserved.

package account

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/qumran/qumran/internal/platform/database/schema"
	"github.com/qumran/qumran/internal/platform/dberr"
	"github.com/qumran/qumran/internal/platform/postgres"
)

// usernameKey matches the unique index users_username_key.
const usernameKey = "(lower(username))"

var table = schema.User

// PostgresRepository implements [Repository].
type PostgresRepository struct {
	db *postgres.DB
}

// NewPostgresRepository creates the account repository.
func NewPostgresRepository(db *postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Statements

func selectUsers() *goqu.SelectDataset {
	columns := make([]any, 0, len(table.Columns()))
	for _, column := range table.Columns() {
		columns = append(columns, goqu.C(column))
	}
	return postgres.Dialect.From(table.Table).Select(columns...)
}

// ByIDStatement selects one account by id.
func ByIDStatement(id string) *goqu.SelectDataset {
	return selectUsers().Where(goqu.C(table.ID).Eq(id))
}

// ByLoginStatement selects the account whose username or email matches login.
func ByLoginStatement(login string) *goqu.SelectDataset {
	folded := strings.ToLower(strings.TrimSpace(login))
	return selectUsers().
		Where(goqu.Or(
			goqu.Func("lower", goqu.C(table.Username)).Eq(folded),
			goqu.Func("lower", goqu.C(table.Email)).Eq(folded),
		)).
		Limit(1)
}

/*
SaveStatement upserts an account keyed on the folded username.

The returned id is the existing one when the username was already taken,
and inserted tells the two cases apart.
*/
func SaveStatement(user *User) *goqu.InsertDataset {
	return postgres.Dialect.
		Insert(table.Table).
		Rows(goqu.Record{
			table.ID:           user.ID,
			table.Username:     user.Username,
			table.Email:        user.Email,
			table.PasswordHash: user.PasswordHash,
			table.Role:         string(user.Role),
		}).
		OnConflict(goqu.DoUpdate(usernameKey, goqu.Record{
			table.Email:        goqu.I("excluded." + table.Email),
			table.PasswordHash: goqu.I("excluded." + table.PasswordHash),
			table.Role:         goqu.I("excluded." + table.Role),
			table.UpdatedAt:    goqu.L("NOW()"),
		})).
		Returning(goqu.C(table.ID), goqu.L("(xmax = 0)").As("inserted"))
}

// # Queries

// FindByID implements [Repository].
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	user := &User{}
	if err := repository.db.One(context, user, ByIDStatement(id)); err != nil {
		return nil, dberr.Wrap(err, Resource)
	}
	return user, nil
}

// FindByLogin implements [Repository].
func (repository *PostgresRepository) FindByLogin(context context.Context, login string) (*User, error) {
	user := &User{}
	if err := repository.db.One(context, user, ByLoginStatement(login)); err != nil {
		return nil, dberr.Wrap(err, Resource)
	}
	return user, nil
}

// # Commands

// Save implements [Repository]. user.ID is replaced by the stored id.
func (repository *PostgresRepository) Save(context context.Context, user *User) (bool, error) {
	var row struct {
		ID       string `db:"id"`
		Inserted bool   `db:"inserted"`
	}
	if err := repository.db.One(context, &row, SaveStatement(user)); err != nil {
		return false, dberr.Wrap(err, Resource)
	}
	user.ID = row.ID
	return row.Inserted, nil
}
