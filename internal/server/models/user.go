package models

import (
	"database/sql"
	"time"
)

// Gender is a closed set of values for the users.gender column.
type Gender string

const (
	GenderMale         Gender = "MALE"
	GenderFemale       Gender = "FEMALE"
	GenderNotSpecified Gender = "NOT_SPECIFIED"
)

// ValidGender reports whether g is one of the known gender values.
func ValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderNotSpecified:
		return true
	}
	return false
}

// User is a registered account. PasswordHash holds the bcrypt hash of the
// password; the plaintext is never stored.
type User struct {
	ID           string
	Username     string
	FullName     sql.NullString
	Email        string
	PasswordHash string
	IsSuperuser  bool
	DateOfBirth  sql.NullTime
	Gender       Gender
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
