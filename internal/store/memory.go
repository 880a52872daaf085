package store

import (
	"context"
	"strings"
	"sync"

	"student-records/internal/models"
)

// Memory keeps every student in process memory. It is also the index the
// file backend loads into.
type Memory struct {
	mu       sync.RWMutex
	students []models.Student
	nextID   int64
}

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

// NewSeededMemory returns a memory store holding the default student.
func NewSeededMemory() (*Memory, error) {
	m := NewMemory()
	seed, err := SeedStudent()
	if err != nil {
		return nil, err
	}
	if _, err := m.Create(context.Background(), seed); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Memory) Find(_ context.Context, key string) (models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOfKey(key); i >= 0 {
		return m.students[i].Clone(), nil
	}
	return models.Student{}, ErrNotFound
}

func (m *Memory) FindByName(_ context.Context, firstName, lastName string) (models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.FirstName == firstName && s.LastName == lastName {
			return s.Clone(), nil
		}
	}
	return models.Student{}, ErrNotFound
}

func (m *Memory) List(_ context.Context) ([]models.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (m *Memory) Create(_ context.Context, input models.NewStudent) (models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := models.NormalizeEmail(input.Email)
	for _, s := range m.students {
		if s.Email == email {
			return models.Student{}, ErrDuplicateEmail
		}
	}
	if input.Username != "" {
		for _, s := range m.students {
			if s.Username == input.Username {
				return models.Student{}, ErrDuplicateUsername
			}
		}
	}
	student := models.Student{
		ID:           m.nextID,
		Username:     input.Username,
		Name:         input.DisplayName(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Class:        input.Class,
		Remarks:      input.Remarks,
		Email:        email,
		PasswordHash: input.PasswordHash,
	}
	for _, mark := range input.Marks {
		student.SetMark(mark.Subject, mark.Value)
	}
	m.students = append(m.students, student)
	m.nextID++
	return student.Clone(), nil
}

func (m *Memory) AddMark(_ context.Context, studentID int64, subject string, value float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == studentID {
			m.students[i].SetMark(subject, value)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Close() error {
	return nil
}

// load replaces the contents wholesale; used by the file backend.
func (m *Memory) load(students []models.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = students
	m.nextID = 1
	for _, s := range students {
		if s.ID >= m.nextID {
			m.nextID = s.ID + 1
		}
	}
}

func (m *Memory) get(id int64) (models.Student, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return models.Student{}, false
}

// replace swaps in a previously read copy of the same student.
func (m *Memory) replace(student models.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == student.ID {
			m.students[i] = student.Clone()
			return
		}
	}
}

// remove drops a student and hands its id back when it was the last one issued.
func (m *Memory) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			break
		}
	}
	if id == m.nextID-1 {
		m.nextID--
	}
}

func (m *Memory) indexOfKey(key string) int {
	email := models.NormalizeEmail(key)
	for i, s := range m.students {
		if (s.Username != "" && s.Username == key) || (email != "" && strings.EqualFold(s.Email, email)) {
			return i
		}
	}
	return -1
}
