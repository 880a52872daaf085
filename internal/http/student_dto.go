package httpapi

import "student-records/internal/models"

type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	StudentID int64      `json:"student_id"`
	Name      string     `json:"name"`
	User      ProfileDTO `json:"user"`
}

// AddMarkRequest is keyed by username and overwrites the module's mark.
type AddMarkRequest struct {
	Username string   `json:"username" validate:"required"`
	Module   string   `json:"module" validate:"required"`
	Mark     *float64 `json:"mark" validate:"required"`
}

// AddSubjectMarkRequest is keyed by first and last name.
type AddSubjectMarkRequest struct {
	FirstName string   `json:"first_name" validate:"required"`
	LastName  string   `json:"last_name" validate:"required"`
	Subject   string   `json:"subject" validate:"required"`
	Mark      *float64 `json:"mark" validate:"required"`
}

type AddSubjectMarkResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	StudentID int64   `json:"student_id"`
	Subject   string  `json:"subject"`
	Mark      float64 `json:"mark"`
}

type MarkInput struct {
	Subject string   `json:"subject" validate:"required"`
	Mark    *float64 `json:"mark" validate:"required"`
}

type AddStudentRequest struct {
	FirstName string      `json:"first_name" validate:"required"`
	LastName  string      `json:"last_name" validate:"required"`
	Class     string      `json:"class" validate:"required"`
	Email     string      `json:"email" validate:"required"`
	Password  string      `json:"password" validate:"required"`
	Username  string      `json:"username"`
	Remarks   string      `json:"remarks"`
	Marks     []MarkInput `json:"marks" validate:"dive"`
}

type AddStudentResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	StudentID int64  `json:"student_id"`
}

type MarksResponse struct {
	Marks map[string]float64 `json:"marks"`
}

// ProfileDTO is the username-keyed view: marks folded into a map.
type ProfileDTO struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Username  string             `json:"username,omitempty"`
	Email     string             `json:"email"`
	Class     string             `json:"class,omitempty"`
	Remarks   string             `json:"remarks,omitempty"`
	Marks     map[string]float64 `json:"marks"`
}

// RecordDTO is the relational view: every mark row in order.
type RecordDTO struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Class     string        `json:"class"`
	Remarks   string        `json:"remarks"`
	Email     string        `json:"email"`
	Username  string        `json:"username,omitempty"`
	Marks     []models.Mark `json:"marks"`
}

func toProfileDTO(s models.Student) ProfileDTO {
	return ProfileDTO{
		ID:        s.ID,
		Name:      s.Name,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Username:  s.Username,
		Email:     s.Email,
		Class:     s.Class,
		Remarks:   s.Remarks,
		Marks:     s.MarkMap(),
	}
}

func toRecordDTO(s models.Student) RecordDTO {
	marks := s.Marks
	if marks == nil {
		marks = []models.Mark{}
	}
	return RecordDTO{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Class:     s.Class,
		Remarks:   s.Remarks,
		Email:     s.Email,
		Username:  s.Username,
		Marks:     marks,
	}
}
