package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/internal/auth"
	"student-records/internal/models"
)

func newStudent(email, username string) models.NewStudent {
	return models.NewStudent{
		Username:     username,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Class:        "L3",
		Email:        email,
		PasswordHash: "$argon2id$placeholder",
	}
}

func TestMemorySeed(t *testing.T) {
	m, err := NewSeededMemory()
	require.NoError(t, err)
	ctx := context.Background()

	s, err := m.Find(ctx, "m3nnoun")
	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, "Abdelfatah Mennoun", s.Name)
	assert.Equal(t, map[string]float64{"acp": 12, "maths": 14, "python": 15, "statistics": 19, "physics": 16}, s.MarkMap())
	assert.True(t, auth.VerifyPassword("admin", s.PasswordHash))

	byEmail, err := m.Find(ctx, "ADMIN@mennoun.me")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byEmail.ID)
}

func TestMemoryFindMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.Find(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Find(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.FindByName(context.Background(), "No", "One")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCreateAssignsIDsAndRejectsDuplicates(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first, err := m.Create(ctx, newStudent("A@b.com", "ada"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "a@b.com", first.Email)
	assert.Equal(t, "Ada Lovelace", first.Name)

	second, err := m.Create(ctx, newStudent("c@d.com", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	_, err = m.Create(ctx, newStudent("a@B.com", "other"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	_, err = m.Create(ctx, newStudent("e@f.com", "ada"))
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryCreateReportsEmailConflictFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.Create(ctx, newStudent("a@x.com", "u1"))
	require.NoError(t, err)
	_, err = m.Create(ctx, newStudent("b@x.com", "u2"))
	require.NoError(t, err)

	_, err = m.Create(ctx, newStudent("b@x.com", "u1"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryFindPrefersLowerID(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	owner, err := m.Create(ctx, newStudent("x@y.com", "owner"))
	require.NoError(t, err)
	_, err = m.Create(ctx, newStudent("b@y.com", "x@y.com"))
	require.NoError(t, err)

	got, err := m.Find(ctx, "x@y.com")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)
}

func TestMemoryAddMarkOverwrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	s, err := m.Create(ctx, newStudent("a@b.com", "ada"))
	require.NoError(t, err)

	require.NoError(t, m.AddMark(ctx, s.ID, "maths", 10))
	require.NoError(t, m.AddMark(ctx, s.ID, "maths", 18))

	got, err := m.Find(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, []models.Mark{{Subject: "maths", Value: 18}}, got.Marks)
}

func TestMemoryAddMarkUnknownStudent(t *testing.T) {
	m, err := NewSeededMemory()
	require.NoError(t, err)
	ctx := context.Background()

	before, _ := m.List(ctx)
	assert.ErrorIs(t, m.AddMark(ctx, 99, "maths", 1), ErrNotFound)
	after, _ := m.List(ctx)
	assert.Equal(t, before, after)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m, err := NewSeededMemory()
	require.NoError(t, err)
	ctx := context.Background()

	s, _ := m.Find(ctx, "m3nnoun")
	s.Marks[0].Value = 0
	again, _ := m.Find(ctx, "m3nnoun")
	assert.Equal(t, 12.0, again.MarkMap()["acp"])
}

func TestMemoryFindByName(t *testing.T) {
	m, err := NewSeededMemory()
	require.NoError(t, err)
	s, err := m.FindByName(context.Background(), "Abdelfatah", "Mennoun")
	require.NoError(t, err)
	assert.Equal(t, "m3nnoun", s.Username)
}
