package logging

import (
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	closeLogs, err := Setup(dir, 3)
	require.NoError(t, err)

	log.Printf("hello from the test")
	closeLogs()

	raw, err := os.ReadFile(filepath.Join(dir, logFileName(time.Now().Format(dateLayout))))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hello from the test")
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	for _, name := range []string{
		"app-2024-05-10.log",
		"app-2024-05-08.log",
		"app-2024-05-07.log",
		"app-2024-04-01.log",
		"app-garbage.log",
		"other.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	CleanupOldLogs(dir, 3, now)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, entry := range entries {
		left = append(left, entry.Name())
	}
	assert.ElementsMatch(t, []string{"app-2024-05-10.log", "app-2024-05-08.log", "app-garbage.log", "other.txt"}, left)
}
