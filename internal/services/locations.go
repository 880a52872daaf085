package services

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"student-records/internal/models"
)

var locationHeader = []string{"Latitude", "Longitude", "Timestamp"}

// LocationLog appends GPS fixes to a CSV file. The header row is written
// only when the file is created.
type LocationLog struct {
	path string
	hub  *LocationHub
	mu   sync.Mutex
}

func NewLocationLog(path string, hub *LocationHub) *LocationLog {
	return &LocationLog{path: path, hub: hub}
}

func (l *LocationLog) Append(fix models.LocationFix) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, statErr := os.Stat(l.path)
	isNew := errors.Is(statErr, os.ErrNotExist)
	if isNew {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return err
		}
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if isNew {
		if err := w.Write(locationHeader); err != nil {
			return err
		}
	}
	if err := w.Write([]string{cellValue(fix.Latitude), cellValue(fix.Longitude), cellValue(fix.Timestamp)}); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", l.path, err)
	}
	if l.hub != nil {
		l.hub.Broadcast(fix)
	}
	return nil
}

// List reads the log back. Cells that parse as JSON keep their type; anything
// else comes back as a string.
func (l *LocationLog) List() ([]models.LocationFix, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.LocationFix{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(locationHeader)
	fixes := []models.LocationFix{}
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", l.path, err)
		}
		if first {
			first = false
			if strings.Join(row, ",") == strings.Join(locationHeader, ",") {
				continue
			}
		}
		fixes = append(fixes, models.LocationFix{
			Latitude:  rawValue(row[0]),
			Longitude: rawValue(row[1]),
			Timestamp: rawValue(row[2]),
		})
	}
	return fixes, nil
}

func cellValue(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return s
		}
	}
	return trimmed
}

func rawValue(cell string) json.RawMessage {
	if json.Valid([]byte(cell)) {
		return json.RawMessage(cell)
	}
	quoted, _ := json.Marshal(cell)
	return quoted
}
