package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dkireev/realty/internal/common"
	"github.com/dkireev/realty/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "full_name", "email", "password_hash",
		"is_superuser", "date_of_birth", "gender", "created_at", "updated_at",
	}).AddRow(u.ID, u.Username, u.FullName, u.Email, u.PasswordHash,
		u.IsSuperuser, u.DateOfBirth, u.Gender, u.CreatedAt, u.UpdatedAt)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("id-1", "alice", sqlmock.AnyArg(), "alice@example.com",
			"$2a$10$hash", false, sqlmock.AnyArg(), models.GenderNotSpecified).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &models.User{
		ID: "id-1", Username: "alice", Email: "alice@example.com",
		PasswordHash: "$2a$10$hash", Gender: models.GenderNotSpecified,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.User{ID: "id-1"})
	if err == nil {
		t.Fatalf("expected wrapped db error, got nil")
	}
}

func TestGetByUsername_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := &models.User{ID: "id-1", Username: "alice", Email: "alice@example.com",
		PasswordHash: "h", Gender: models.GenderNotSpecified}
	mock.ExpectQuery(`SELECT .* FROM users WHERE username`).
		WithArgs("alice").
		WillReturnRows(userRows(want))

	got, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.ID != "id-1" || got.Username != "alice" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE username`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users WHERE id`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestUsernameExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.UsernameExists(context.Background(), "alice")
	if err != nil {
		t.Fatalf("UsernameExists error: %v", err)
	}
	if !ok {
		t.Fatalf("expected true")
	}
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs("id-1", "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), "id-1", "new-hash"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	email := "new@example.com"
	mock.ExpectExec(`UPDATE users`).
		WithArgs("id-1", nil, nil, &email).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProfile(context.Background(), "id-1", ProfileUpdate{Email: &email})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
}

func TestDelete_ReportsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Delete(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if !ok {
		t.Fatalf("expected deleted=true")
	}

	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.Delete(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if ok {
		t.Fatalf("expected deleted=false for absent user")
	}
}

func TestDeleteAllExceptSuperusers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE NOT is_superuser`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteAllExceptSuperusers(context.Background())
	if err != nil {
		t.Fatalf("DeleteAllExceptSuperusers error: %v", err)
	}
	if n != 3 {
		t.Fatalf("deleted = %d, want 3", n)
	}
}

func TestList_ScansAllRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := userRows(&models.User{ID: "a", Username: "u1", Gender: models.GenderNotSpecified, CreatedAt: now, UpdatedAt: now})
	rows.AddRow("b", "u2", nil, "b@example.com", "h", false, nil, models.GenderMale, now, now)

	mock.ExpectQuery(`SELECT .* FROM users ORDER BY created_at`).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}
