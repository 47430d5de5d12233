// Copyright (c) 2026 Qumran. All rights reserved.

// Command admin creates or updates a dashboard account.
//
// # Usage
//
//	QUMRAN_ADMIN_PASSWORD=... admin -username librarian -email lib@example.org -role editor
//
// When QUMRAN_ADMIN_PASSWORD is unset the password is read from the first
// line of standard input. Running it again for an existing username (any
// letter case) replaces that account's email, password and role.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/qumran/qumran/internal/platform/apperr"
	"github.com/qumran/qumran/internal/platform/config"
	"github.com/qumran/qumran/internal/platform/constants"
	"github.com/qumran/qumran/internal/platform/migration"
	pgstore "github.com/qumran/qumran/internal/platform/postgres"
	"github.com/qumran/qumran/internal/platform/sec"
	"github.com/qumran/qumran/internal/users/account"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String("app", constants.AppName+"-admin"))

	if err := run(log, os.Args[1:]); err != nil {
		if appErr := apperr.As(err); appErr != nil {
			for _, detail := range appErr.Details {
				log.Error("invalid_account", slog.String("field", detail.Field), slog.String("message", detail.Message))
			}
		}
		log.Error("admin_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("admin", flag.ContinueOnError)
	username := flags.String("username", "", "account username (required)")
	email := flags.String("email", "", "account email (required)")
	role := flags.String("role", string(sec.RoleEditor), "account role: "+strings.Join(sec.RoleNames(), " or "))
	migrate := flags.Bool("migrate", true, "apply pending migrations first")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadAdmin()
	if err != nil {
		return err
	}

	password := cfg.Password
	if password == "" {
		if password, err = readPassword(os.Stdin); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.StartupTimeout)
	defer cancel()

	if *migrate {
		result, err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
		if err != nil {
			return err
		}
		fmt.Printf("schema at version %d\n", result.To)
	}

	pool, err := pgstore.NewPool(ctx, pgstore.PoolConfig{DSN: cfg.DatabaseURL, MaxConns: 2, MinConns: 1, ApplicationName: "qumran-admin"}, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := account.NewService(account.NewPostgresRepository(pgstore.NewDB(pool)), log)
	user, created, err := service.Provision(ctx, account.ProvisionInput{
		Username: *username,
		Email:    *email,
		Password: password,
		Role:     sec.UserRole(*role),
	})
	if err != nil {
		return err
	}

	verb := "updated"
	if created {
		verb = "created"
	}
	fmt.Printf("%s %s account %q (%s)\n", verb, user.Role, user.Username, user.ID)
	return nil
}

// readPassword takes the first line of input, without its line ending.
func readPassword(input io.Reader) (string, error) {
	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.New("admin: no password given: set QUMRAN_ADMIN_PASSWORD or pipe it on stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
