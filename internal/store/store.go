package store

import (
	"context"
	"errors"
	"fmt"

	"student-records/internal/auth"
	"student-records/internal/models"
)

var (
	ErrNotFound          = errors.New("student not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store is the record store contract shared by every backend.
//
// Find matches a username or an email (case-insensitive). AddMark overwrites
// the subject in the keyed backends and appends a row in the relational one.
type Store interface {
	Find(ctx context.Context, key string) (models.Student, error)
	FindByName(ctx context.Context, firstName, lastName string) (models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, input models.NewStudent) (models.Student, error)
	AddMark(ctx context.Context, studentID int64, subject string, value float64) error
	Close() error
}

const seedPassword = "admin"

// SeedStudent is the record a fresh keyed store starts with.
func SeedStudent() (models.NewStudent, error) {
	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return models.NewStudent{}, fmt.Errorf("hash seed password: %w", err)
	}
	return models.NewStudent{
		Username:     "m3nnoun",
		FirstName:    "Abdelfatah",
		LastName:     "Mennoun",
		Email:        "admin@mennoun.me",
		PasswordHash: hash,
		Marks: []models.Mark{
			{Subject: "acp", Value: 12},
			{Subject: "maths", Value: 14},
			{Subject: "python", Value: 15},
			{Subject: "statistics", Value: 19},
			{Subject: "physics", Value: 16},
		},
	}, nil
}
