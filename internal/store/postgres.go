package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"student-records/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Postgres keeps students and marks in two tables. Marks are append-only:
// recording the same subject twice stores two rows.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

type studentRow struct {
	ID           int64   `db:"id"`
	Username     *string `db:"username"`
	FirstName    string  `db:"first_name"`
	LastName     string  `db:"last_name"`
	Class        string  `db:"class"`
	Remarks      *string `db:"remarks"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
}

func (r studentRow) toModel() models.Student {
	s := models.Student{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Class:        r.Class,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
	}
	if r.Username != nil {
		s.Username = *r.Username
	}
	if r.Remarks != nil {
		s.Remarks = *r.Remarks
	}
	s.Name = models.NewStudent{FirstName: s.FirstName, LastName: s.LastName}.DisplayName()
	return s
}

const studentColumns = `id, username, first_name, last_name, class, remarks, email, password_hash`

func (p *Postgres) Find(ctx context.Context, key string) (models.Student, error) {
	return p.getOne(ctx, `
SELECT `+studentColumns+`
FROM students
WHERE username = $1 OR email = lower($1)
ORDER BY id
LIMIT 1
`, key)
}

func (p *Postgres) FindByName(ctx context.Context, firstName, lastName string) (models.Student, error) {
	return p.getOne(ctx, `
SELECT `+studentColumns+`
FROM students
WHERE first_name = $1 AND last_name = $2
ORDER BY id
LIMIT 1
`, firstName, lastName)
}

func (p *Postgres) getOne(ctx context.Context, query string, args ...interface{}) (models.Student, error) {
	var row studentRow
	if err := p.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}
	student := row.toModel()
	marks := []models.Mark{}
	if err := p.db.SelectContext(ctx, &marks, `SELECT subject, mark FROM marks WHERE student_id = $1 ORDER BY id`, row.ID); err != nil {
		return models.Student{}, err
	}
	student.Marks = marks
	return student, nil
}

func (p *Postgres) List(ctx context.Context) ([]models.Student, error) {
	rows := []struct {
		studentRow
		Subject *string  `db:"subject"`
		Mark    *float64 `db:"mark"`
	}{}
	if err := p.db.SelectContext(ctx, &rows, `
SELECT s.id, s.username, s.first_name, s.last_name, s.class, s.remarks, s.email, s.password_hash,
       m.subject, m.mark
FROM students s
LEFT JOIN marks m ON m.student_id = s.id
ORDER BY s.id, m.id
`); err != nil {
		return nil, err
	}
	students := []models.Student{}
	for _, row := range rows {
		if len(students) == 0 || students[len(students)-1].ID != row.ID {
			students = append(students, row.studentRow.toModel())
		}
		if row.Subject != nil && row.Mark != nil {
			last := &students[len(students)-1]
			last.Marks = append(last.Marks, models.Mark{Subject: *row.Subject, Value: *row.Mark})
		}
	}
	return students, nil
}

// Create inserts the student and its initial marks in one transaction.
func (p *Postgres) Create(ctx context.Context, input models.NewStudent) (models.Student, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Student{}, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.GetContext(ctx, &id, `
INSERT INTO students (username, first_name, last_name, class, remarks, email, password_hash)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id
`, nullIfEmpty(input.Username), input.FirstName, input.LastName, input.Class,
		nullIfEmpty(input.Remarks), models.NormalizeEmail(input.Email), input.PasswordHash)
	if err != nil {
		return models.Student{}, translatePgError(err)
	}
	for _, mark := range input.Marks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO marks (student_id, subject, mark) VALUES ($1,$2,$3)`, id, mark.Subject, mark.Value); err != nil {
			return models.Student{}, fmt.Errorf("insert mark %q: %w", mark.Subject, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return models.Student{}, err
	}
	return models.Student{
		ID:           id,
		Username:     input.Username,
		Name:         input.DisplayName(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Class:        input.Class,
		Remarks:      input.Remarks,
		Email:        models.NormalizeEmail(input.Email),
		PasswordHash: input.PasswordHash,
		Marks:        append([]models.Mark(nil), input.Marks...),
	}, nil
}

func (p *Postgres) AddMark(ctx context.Context, studentID int64, subject string, value float64) error {
	_, err := p.db.ExecContext(ctx, `INSERT INTO marks (student_id, subject, mark) VALUES ($1,$2,$3)`, studentID, subject, value)
	return translatePgError(err)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case "students_email_key":
			return ErrDuplicateEmail
		case "students_username_key":
			return ErrDuplicateUsername
		}
	case pgForeignKeyViolation:
		return ErrNotFound
	}
	return err
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
