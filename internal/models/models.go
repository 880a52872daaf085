package models

import (
	"encoding/json"
	"strings"
)

type Mark struct {
	Subject string  `db:"subject" json:"subject"`
	Value   float64 `db:"mark" json:"mark"`
}

type Student struct {
	ID           int64
	Username     string
	Name         string
	FirstName    string
	LastName     string
	Class        string
	Remarks      string
	Email        string
	PasswordHash string
	Marks        []Mark
}

// MarkMap folds the marks into subject -> value. Later entries win, so
// duplicate rows from the relational store resolve to the most recent one.
func (s Student) MarkMap() map[string]float64 {
	out := make(map[string]float64, len(s.Marks))
	for _, mark := range s.Marks {
		out[mark.Subject] = mark.Value
	}
	return out
}

// SetMark overwrites the subject if present, otherwise appends it.
func (s *Student) SetMark(subject string, value float64) {
	for i := range s.Marks {
		if s.Marks[i].Subject == subject {
			s.Marks[i].Value = value
			return
		}
	}
	s.Marks = append(s.Marks, Mark{Subject: subject, Value: value})
}

func (s Student) Clone() Student {
	out := s
	out.Marks = append([]Mark(nil), s.Marks...)
	return out
}

type NewStudent struct {
	Username     string
	FirstName    string
	LastName     string
	Class        string
	Remarks      string
	Email        string
	PasswordHash string
	Marks        []Mark
}

func (n NewStudent) DisplayName() string {
	return strings.TrimSpace(n.FirstName + " " + n.LastName)
}

// SplitName derives first and last name from a display name.
func SplitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	first, last, _ := strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LocationFix keeps the raw JSON of each coordinate so any value type round-trips.
type LocationFix struct {
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
	Timestamp json.RawMessage `json:"timestamp"`
}
