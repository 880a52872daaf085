package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"student-records/internal/models"
	"student-records/internal/services"
)

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Username or email and password are required")
		return
	}
	key := strings.TrimSpace(req.Username)
	if key == "" {
		key = strings.TrimSpace(req.Email)
	}
	student, err := s.Students.Login(r.Context(), key, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, LoginResponse{
		Status:    statusSuccess,
		Message:   "Login successful",
		StudentID: student.ID,
		Name:      student.Name,
		User:      toProfileDTO(student),
	})
}

func (s *Server) AddMark(w http.ResponseWriter, r *http.Request) {
	var req AddMarkRequest
	if _, ok := decodeJSON(r, &req); !ok {
		WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if _, err := s.Students.AddMarkByUsername(r.Context(), req.Username, req.Module, *req.Mark); err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Status: statusSuccess, Message: "Mark added successfully"})
}

func (s *Server) AddSubjectMark(w http.ResponseWriter, r *http.Request) {
	var req AddSubjectMarkRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Missing "+missingField(err))
		return
	}
	student, err := s.Students.AddMarkByName(r.Context(), req.FirstName, req.LastName, req.Subject, *req.Mark)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, AddSubjectMarkResponse{
		Status:    statusSuccess,
		Message:   "Mark added successfully",
		StudentID: student.ID,
		Subject:   req.Subject,
		Mark:      *req.Mark,
	})
}

func (s *Server) Marks(w http.ResponseWriter, r *http.Request) {
	marks, err := s.Students.Marks(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MarksResponse{Marks: marks})
}

func (s *Server) Student(w http.ResponseWriter, r *http.Request) {
	student, err := s.Students.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toProfileDTO(student))
}

func (s *Server) StudentByName(w http.ResponseWriter, r *http.Request) {
	firstName := strings.TrimSpace(r.URL.Query().Get("first_name"))
	lastName := strings.TrimSpace(r.URL.Query().Get("last_name"))
	if firstName == "" || lastName == "" {
		WriteError(w, http.StatusBadRequest, "First name and last name are required")
		return
	}
	student, err := s.Students.ProfileByName(r.Context(), firstName, lastName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, toRecordDTO(student))
}

func (s *Server) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.Students.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	items := make([]RecordDTO, 0, len(students))
	for _, student := range students {
		items = append(items, toRecordDTO(student))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) AddStudent(w http.ResponseWriter, r *http.Request) {
	var req AddStudentRequest
	if msg, ok := decodeJSON(r, &req); !ok {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, "Missing "+missingField(err))
		return
	}
	marks := make([]models.Mark, 0, len(req.Marks))
	for _, mark := range req.Marks {
		marks = append(marks, models.Mark{Subject: mark.Subject, Value: *mark.Mark})
	}
	student, err := s.Students.Create(r.Context(), services.CreateStudentInput{
		Username:  strings.TrimSpace(req.Username),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Class:     req.Class,
		Remarks:   req.Remarks,
		Email:     req.Email,
		Password:  req.Password,
		Marks:     marks,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, AddStudentResponse{
		Status:    statusSuccess,
		Message:   "Student added successfully",
		StudentID: student.ID,
	})
}
