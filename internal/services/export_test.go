package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"student-records/internal/models"
)

func TestWriteStudentsWorkbook(t *testing.T) {
	students := []models.Student{
		{ID: 1, Username: "m3nnoun", FirstName: "Abdelfatah", LastName: "Mennoun", Email: "admin@mennoun.me",
			Marks: []models.Mark{{Subject: "maths", Value: 14}, {Subject: "acp", Value: 12}}},
		{ID: 2, FirstName: "A", LastName: "B", Class: "C", Email: "a@b.com",
			Marks: []models.Mark{{Subject: "physics", Value: 9.5}, {Subject: "physics", Value: 11}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStudentsWorkbook(&buf, students))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Students")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Username", "First Name", "Last Name", "Class", "Email", "Remarks", "acp", "maths", "physics"}, rows[0])
	assert.Equal(t, []string{"1", "m3nnoun", "Abdelfatah", "Mennoun", "", "admin@mennoun.me", "", "12", "14"}, rows[1])
	assert.Equal(t, []string{"2", "", "A", "B", "C", "a@b.com", "", "", "", "11"}, rows[2])
}

func TestWriteStudentsWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStudentsWorkbook(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Students")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
