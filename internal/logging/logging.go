package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// Setup tees the standard logger to stdout and a daily file under dir,
// rotating at midnight and pruning files older than retentionDays.
// The returned func stops rotation and closes the current file.
func Setup(dir string, retentionDays int) (func(), error) {
	if retentionDays < 1 {
		retentionDays = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	currentDate := time.Now().Format(dateLayout)
	file, err := openLogFile(dir, currentDate)
	if err != nil {
		return nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, file))
	CleanupOldLogs(dir, retentionDays, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				date := time.Now().Format(dateLayout)
				mu.Lock()
				if date != currentDate {
					newFile, err := openLogFile(dir, date)
					if err == nil {
						log.SetOutput(io.MultiWriter(os.Stdout, newFile))
						_ = file.Close()
						file = newFile
						currentDate = date
						CleanupOldLogs(dir, retentionDays, time.Now())
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		mu.Lock()
		log.SetOutput(os.Stderr)
		_ = file.Close()
		mu.Unlock()
	}, nil
}

func logFileName(date string) string {
	return fmt.Sprintf("app-%s.log", date)
}

func openLogFile(dir, date string) (*os.File, error) {
	return os.OpenFile(filepath.Join(dir, logFileName(date)), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// CleanupOldLogs removes app-YYYY-MM-DD.log files dated before the retention
// window ending at now. Other files are left alone.
func CleanupOldLogs(dir string, retentionDays int, now time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -(retentionDays - 1))
	cutoff = time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, "app-"), ".log")
		logDate, err := time.Parse(dateLayout, datePart)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
