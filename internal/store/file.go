package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"student-records/internal/auth"
	"student-records/internal/models"
)

// fileRecord is the on-disk shape of one student. Password holds a legacy
// plaintext value; it is hashed on load and never written back.
type fileRecord struct {
	ID           int64              `json:"id,omitempty"`
	Name         string             `json:"name"`
	FirstName    string             `json:"first_name,omitempty"`
	LastName     string             `json:"last_name,omitempty"`
	Class        string             `json:"class,omitempty"`
	Remarks      string             `json:"remarks,omitempty"`
	Email        string             `json:"email"`
	Username     string             `json:"username,omitempty"`
	Password     string             `json:"password,omitempty"`
	PasswordHash string             `json:"password_hash,omitempty"`
	Marks        map[string]float64 `json:"marks"`
}

// File serves reads from an in-memory index and writes the whole dataset
// back to a JSON array file. With a zero flush interval every mutation is
// written through; otherwise a scheduler flushes dirty state periodically.
type File struct {
	mem       *Memory
	path      string
	flushMu   sync.Mutex
	dirty     bool
	scheduler *gocron.Scheduler
}

func OpenFile(path string, flushInterval time.Duration) (*File, error) {
	f := &File{mem: NewMemory(), path: path}
	if err := f.loadOrSeed(); err != nil {
		return nil, err
	}
	if flushInterval > 0 {
		f.scheduler = gocron.NewScheduler(time.UTC)
		if _, err := f.scheduler.Every(flushInterval).WaitForSchedule().Do(f.flushIfDirty); err != nil {
			return nil, fmt.Errorf("schedule flush: %w", err)
		}
		f.scheduler.StartAsync()
	}
	return f, nil
}

func (f *File) Find(ctx context.Context, key string) (models.Student, error) {
	return f.mem.Find(ctx, key)
}

func (f *File) FindByName(ctx context.Context, firstName, lastName string) (models.Student, error) {
	return f.mem.FindByName(ctx, firstName, lastName)
}

func (f *File) List(ctx context.Context) ([]models.Student, error) {
	return f.mem.List(ctx)
}

// Create and AddMark hold flushMu for the whole mutation so a failed
// write-through is undone before another mutation or flush runs.
func (f *File) Create(ctx context.Context, input models.NewStudent) (models.Student, error) {
	f.flushMu.Lock()
	defer f.flushMu.Unlock()
	student, err := f.mem.Create(ctx, input)
	if err != nil {
		return models.Student{}, err
	}
	if err := f.changedLocked(); err != nil {
		f.mem.remove(student.ID)
		return models.Student{}, err
	}
	return student, nil
}

func (f *File) AddMark(ctx context.Context, studentID int64, subject string, value float64) error {
	f.flushMu.Lock()
	defer f.flushMu.Unlock()
	before, ok := f.mem.get(studentID)
	if !ok {
		return ErrNotFound
	}
	if err := f.mem.AddMark(ctx, studentID, subject, value); err != nil {
		return err
	}
	if err := f.changedLocked(); err != nil {
		f.mem.replace(before)
		return err
	}
	return nil
}

// Flush writes the current dataset to disk.
func (f *File) Flush() error {
	f.flushMu.Lock()
	defer f.flushMu.Unlock()
	return f.flushLocked()
}

func (f *File) Close() error {
	if f.scheduler != nil {
		f.scheduler.Stop()
	}
	return f.Flush()
}

func (f *File) changedLocked() error {
	if f.scheduler != nil {
		f.dirty = true
		return nil
	}
	return f.flushLocked()
}

func (f *File) flushIfDirty() {
	f.flushMu.Lock()
	defer f.flushMu.Unlock()
	if !f.dirty {
		return
	}
	if err := f.flushLocked(); err != nil {
		log.Printf("students file flush: %v", err)
	}
}

func (f *File) flushLocked() error {
	students, _ := f.mem.List(context.Background())
	if err := writeRecords(f.path, students); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

func (f *File) loadOrSeed() error {
	content, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		seed, err := SeedStudent()
		if err != nil {
			return err
		}
		if _, err := f.mem.Create(context.Background(), seed); err != nil {
			return err
		}
		return f.Flush()
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	var records []fileRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	students, migrated, err := fromRecords(records)
	if err != nil {
		return err
	}
	f.mem.load(students)
	if migrated {
		return f.Flush()
	}
	return nil
}

func fromRecords(records []fileRecord) ([]models.Student, bool, error) {
	migrated := false
	var nextID int64 = 1
	for _, rec := range records {
		if rec.ID >= nextID {
			nextID = rec.ID + 1
		}
	}
	students := make([]models.Student, 0, len(records))
	for _, rec := range records {
		s := models.Student{
			ID:           rec.ID,
			Username:     rec.Username,
			Name:         rec.Name,
			FirstName:    rec.FirstName,
			LastName:     rec.LastName,
			Class:        rec.Class,
			Remarks:      rec.Remarks,
			Email:        models.NormalizeEmail(rec.Email),
			PasswordHash: rec.PasswordHash,
		}
		if s.ID == 0 {
			s.ID = nextID
			nextID++
			migrated = true
		}
		if s.FirstName == "" && s.LastName == "" {
			s.FirstName, s.LastName = models.SplitName(s.Name)
		}
		if s.Name == "" {
			s.Name = models.NewStudent{FirstName: s.FirstName, LastName: s.LastName}.DisplayName()
		}
		if s.PasswordHash == "" && rec.Password != "" {
			hash, err := auth.HashPassword(rec.Password)
			if err != nil {
				return nil, false, err
			}
			s.PasswordHash = hash
			migrated = true
		}
		subjects := make([]string, 0, len(rec.Marks))
		for subject := range rec.Marks {
			subjects = append(subjects, subject)
		}
		sort.Strings(subjects)
		for _, subject := range subjects {
			s.Marks = append(s.Marks, models.Mark{Subject: subject, Value: rec.Marks[subject]})
		}
		students = append(students, s)
	}
	return students, migrated, nil
}

func toRecords(students []models.Student) []fileRecord {
	records := make([]fileRecord, 0, len(students))
	for _, s := range students {
		records = append(records, fileRecord{
			ID:           s.ID,
			Name:         s.Name,
			FirstName:    s.FirstName,
			LastName:     s.LastName,
			Class:        s.Class,
			Remarks:      s.Remarks,
			Email:        s.Email,
			Username:     s.Username,
			PasswordHash: s.PasswordHash,
			Marks:        s.MarkMap(),
		})
	}
	return records
}

// writeRecords replaces path atomically via a temp file in the same directory.
func writeRecords(path string, students []models.Student) error {
	content, err := json.MarshalIndent(toRecords(students), "", "    ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
