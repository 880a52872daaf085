package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"

	"student-records/internal/models"
)

const (
	redisNextIDKey      = "students:next_id"
	redisStudentsKey    = "students"             // Set: every student id
	redisByEmailKey     = "students:by_email"    // Hash: email -> id
	redisByUsernameKey  = "students:by_username" // Hash: username -> id
	redisStudentPrefix  = "student:"             // Hash: student:{id} -> fields
	redisMarksKeySuffix = ":marks"               // Hash: student:{id}:marks -> subject -> mark
)

// Redis keeps one hash per student plus index hashes for email and username.
// Uniqueness is claimed with HSETNX on the index hashes.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// OpenRedis connects and seeds the default student when the keyspace is empty.
func OpenRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	r := NewRedis(client)
	if err := r.seedIfEmpty(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return r, nil
}

func studentKey(id int64) string {
	return redisStudentPrefix + strconv.FormatInt(id, 10)
}

func marksKey(id int64) string {
	return studentKey(id) + redisMarksKeySuffix
}

func (r *Redis) seedIfEmpty(ctx context.Context) error {
	count, err := r.client.SCard(ctx, redisStudentsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("count students: %w", err)
	}
	if count > 0 {
		return nil
	}
	seed, err := SeedStudent()
	if err != nil {
		return err
	}
	if _, err := r.Create(ctx, seed); err != nil && !errors.Is(err, ErrDuplicateEmail) {
		return fmt.Errorf("seed student: %w", err)
	}
	log.Printf("redis store seeded with %s", seed.Username)
	return nil
}

// Find consults both index hashes; when the key is one student's username and
// another's email the lower id wins.
func (r *Redis) Find(ctx context.Context, key string) (models.Student, error) {
	var found int64
	if key != "" {
		id, err := r.indexLookup(ctx, redisByUsernameKey, key)
		if err != nil {
			return models.Student{}, err
		}
		found = id
	}
	if email := models.NormalizeEmail(key); email != "" {
		id, err := r.indexLookup(ctx, redisByEmailKey, email)
		if err != nil {
			return models.Student{}, err
		}
		if id != 0 && (found == 0 || id < found) {
			found = id
		}
	}
	if found == 0 {
		return models.Student{}, ErrNotFound
	}
	return r.get(ctx, found)
}

// indexLookup returns 0 when field is not in the index.
func (r *Redis) indexLookup(ctx context.Context, index, field string) (int64, error) {
	id, err := r.client.HGet(ctx, index, field).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return id, err
}

func (r *Redis) FindByName(ctx context.Context, firstName, lastName string) (models.Student, error) {
	students, err := r.List(ctx)
	if err != nil {
		return models.Student{}, err
	}
	for _, s := range students {
		if s.FirstName == firstName && s.LastName == lastName {
			return s, nil
		}
	}
	return models.Student{}, ErrNotFound
}

func (r *Redis) List(ctx context.Context) ([]models.Student, error) {
	members, err := r.client.SMembers(ctx, redisStudentsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			log.Printf("redis store: skipping malformed id %q", member)
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	students := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		s, err := r.get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, nil
}

func (r *Redis) Create(ctx context.Context, input models.NewStudent) (models.Student, error) {
	email := models.NormalizeEmail(input.Email)
	id, err := r.client.Incr(ctx, redisNextIDKey).Result()
	if err != nil {
		return models.Student{}, fmt.Errorf("allocate id: %w", err)
	}
	claimed, err := r.client.HSetNX(ctx, redisByEmailKey, email, id).Result()
	if err != nil {
		return models.Student{}, err
	}
	if !claimed {
		return models.Student{}, ErrDuplicateEmail
	}
	if input.Username != "" {
		claimed, err := r.client.HSetNX(ctx, redisByUsernameKey, input.Username, id).Result()
		if err != nil || !claimed {
			r.client.HDel(ctx, redisByEmailKey, email)
			if err != nil {
				return models.Student{}, err
			}
			return models.Student{}, ErrDuplicateUsername
		}
	}

	student := models.Student{
		ID:           id,
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

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, studentKey(id), map[string]interface{}{
			"id":            id,
			"username":      student.Username,
			"name":          student.Name,
			"first_name":    student.FirstName,
			"last_name":     student.LastName,
			"class":         student.Class,
			"remarks":       student.Remarks,
			"email":         student.Email,
			"password_hash": student.PasswordHash,
		})
		for _, mark := range student.Marks {
			pipe.HSet(ctx, marksKey(id), mark.Subject, mark.Value)
		}
		pipe.SAdd(ctx, redisStudentsKey, id)
		return nil
	})
	if err != nil {
		r.release(ctx, id, email, input.Username)
		return models.Student{}, fmt.Errorf("store student %d: %w", id, err)
	}
	return student, nil
}

// release undoes the index claims and any partial writes of a failed create.
func (r *Redis) release(ctx context.Context, id int64, email, username string) {
	r.client.HDel(ctx, redisByEmailKey, email)
	if username != "" {
		r.client.HDel(ctx, redisByUsernameKey, username)
	}
	r.client.Del(ctx, studentKey(id), marksKey(id))
	r.client.SRem(ctx, redisStudentsKey, id)
}

func (r *Redis) AddMark(ctx context.Context, studentID int64, subject string, value float64) error {
	exists, err := r.client.SIsMember(ctx, redisStudentsKey, studentID).Result()
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return r.client.HSet(ctx, marksKey(studentID), subject, value).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) get(ctx context.Context, id int64) (models.Student, error) {
	fields, err := r.client.HGetAll(ctx, studentKey(id)).Result()
	if err != nil {
		return models.Student{}, err
	}
	if len(fields) == 0 {
		return models.Student{}, ErrNotFound
	}
	rawMarks, err := r.client.HGetAll(ctx, marksKey(id)).Result()
	if err != nil {
		return models.Student{}, err
	}
	s := models.Student{
		ID:           id,
		Username:     fields["username"],
		Name:         fields["name"],
		FirstName:    fields["first_name"],
		LastName:     fields["last_name"],
		Class:        fields["class"],
		Remarks:      fields["remarks"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
	}
	subjects := make([]string, 0, len(rawMarks))
	for subject := range rawMarks {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	for _, subject := range subjects {
		value, err := strconv.ParseFloat(strings.TrimSpace(rawMarks[subject]), 64)
		if err != nil {
			return models.Student{}, fmt.Errorf("student %d mark %q: %w", id, subject, err)
		}
		s.Marks = append(s.Marks, models.Mark{Subject: subject, Value: value})
	}
	return s, nil
}
