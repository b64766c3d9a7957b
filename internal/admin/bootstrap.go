// Package admin implements the interactive superuser bootstrap command.
package admin

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dkireev/realty/internal/server/auth"
	"github.com/dkireev/realty/internal/server/config"
	"github.com/dkireev/realty/internal/server/repositories/repomanager"
	"github.com/dkireev/realty/internal/server/services"
)

var (
	ErrWeakPassword     = errors.New("password must be at least 8 characters with a lowercase letter, an uppercase letter and a digit")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func promptText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword()
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// CollectInput reads the superuser credentials interactively. The password is
// read without echo, entered twice and checked against the password policy.
func CollectInput(r io.Reader, w io.Writer) (username, email, password string, err error) {
	reader := bufio.NewReader(r)

	username, err = promptText(reader, "Superuser username", w)
	if err != nil {
		return "", "", "", err
	}
	email, err = promptText(reader, "Superuser email", w)
	if err != nil {
		return "", "", "", err
	}

	password, err = promptPassword("Enter password", w)
	if err != nil {
		return "", "", "", err
	}
	if !auth.ValidPassword(password) {
		return "", "", "", ErrWeakPassword
	}

	confirm, err := promptPassword("Repeat password", w)
	if err != nil {
		return "", "", "", err
	}
	if password != confirm {
		return "", "", "", ErrPasswordMismatch
	}

	return username, email, password, nil
}

// Bootstrap connects to the database, runs migrations and creates the
// superuser account unless one already exists. It reports whether an account
// was created.
func Bootstrap(ctx context.Context, cfg *config.Config, username, email, password string) (bool, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return false, fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return false, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, nil, nil)
	return us.EnsureSuperuser(ctx, username, email, password)
}
