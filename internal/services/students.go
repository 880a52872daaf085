package services

import (
	"context"
	"errors"

	"student-records/internal/auth"
	"student-records/internal/models"
	"student-records/internal/store"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgUserNotFound       = "User not found"
	msgStudentNotFound    = "Student not found"
	msgEmailExists        = "Email already exists"
	msgUsernameExists     = "Username already exists"
)

type StudentService struct {
	Store store.Store
}

func NewStudentService(s store.Store) *StudentService {
	return &StudentService{Store: s}
}

type CreateStudentInput struct {
	Username  string
	FirstName string
	LastName  string
	Class     string
	Remarks   string
	Email     string
	Password  string
	Marks     []models.Mark
}

// Login checks the password of the student matching key (username or email).
// Unknown keys and wrong passwords fail the same way.
func (s *StudentService) Login(ctx context.Context, key, password string) (models.Student, error) {
	student, err := s.Store.Find(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return models.Student{}, ErrUnauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return models.Student{}, WrapError(err, "find student")
	}
	if !auth.VerifyPassword(password, student.PasswordHash) {
		return models.Student{}, ErrUnauthorized(msgInvalidCredentials)
	}
	return student, nil
}

func (s *StudentService) AddMarkByUsername(ctx context.Context, username, subject string, value float64) (models.Student, error) {
	student, err := s.lookup(ctx, username, msgUserNotFound)
	if err != nil {
		return models.Student{}, err
	}
	return student, s.addMark(ctx, student.ID, subject, value, msgUserNotFound)
}

func (s *StudentService) AddMarkByName(ctx context.Context, firstName, lastName, subject string, value float64) (models.Student, error) {
	student, err := s.lookupByName(ctx, firstName, lastName)
	if err != nil {
		return models.Student{}, err
	}
	return student, s.addMark(ctx, student.ID, subject, value, msgStudentNotFound)
}

func (s *StudentService) Marks(ctx context.Context, username string) (map[string]float64, error) {
	student, err := s.lookup(ctx, username, msgUserNotFound)
	if err != nil {
		return nil, err
	}
	return student.MarkMap(), nil
}

func (s *StudentService) Profile(ctx context.Context, username string) (models.Student, error) {
	return s.lookup(ctx, username, msgUserNotFound)
}

func (s *StudentService) ProfileByName(ctx context.Context, firstName, lastName string) (models.Student, error) {
	return s.lookupByName(ctx, firstName, lastName)
}

func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.Store.List(ctx)
	if err != nil {
		return nil, WrapError(err, "list students")
	}
	return students, nil
}

func (s *StudentService) Create(ctx context.Context, input CreateStudentInput) (models.Student, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.Student{}, WrapError(err, "hash password")
	}
	student, err := s.Store.Create(ctx, models.NewStudent{
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Class:        input.Class,
		Remarks:      input.Remarks,
		Email:        input.Email,
		PasswordHash: hash,
		Marks:        input.Marks,
	})
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return models.Student{}, ErrConflict(msgEmailExists)
	case errors.Is(err, store.ErrDuplicateUsername):
		return models.Student{}, ErrConflict(msgUsernameExists)
	case err != nil:
		return models.Student{}, WrapError(err, "create student")
	}
	return student, nil
}

func (s *StudentService) lookup(ctx context.Context, key, notFound string) (models.Student, error) {
	student, err := s.Store.Find(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return models.Student{}, ErrNotFound(notFound)
	}
	if err != nil {
		return models.Student{}, WrapError(err, "find student")
	}
	return student, nil
}

func (s *StudentService) lookupByName(ctx context.Context, firstName, lastName string) (models.Student, error) {
	student, err := s.Store.FindByName(ctx, firstName, lastName)
	if errors.Is(err, store.ErrNotFound) {
		return models.Student{}, ErrNotFound(msgStudentNotFound)
	}
	if err != nil {
		return models.Student{}, WrapError(err, "find student by name")
	}
	return student, nil
}

func (s *StudentService) addMark(ctx context.Context, studentID int64, subject string, value float64, notFound string) error {
	err := s.Store.AddMark(ctx, studentID, subject, value)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound(notFound)
	}
	return WrapError(err, "add mark")
}
