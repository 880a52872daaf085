package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/internal/models"
)

func fix(lat, lng, ts string) models.LocationFix {
	return models.LocationFix{
		Latitude:  json.RawMessage(lat),
		Longitude: json.RawMessage(lng),
		Timestamp: json.RawMessage(ts),
	}
}

func TestLocationLogWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "locations.csv")
	l := NewLocationLog(path, nil)

	require.NoError(t, l.Append(fix(`36.75`, `3.06`, `"2024-05-01T10:00:00Z"`)))
	require.NoError(t, l.Append(fix(`"north"`, `-0.5`, `1714557600`)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Latitude,Longitude,Timestamp\n36.75,3.06,2024-05-01T10:00:00Z\nnorth,-0.5,1714557600\n", string(content))
}

func TestLocationLogListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.csv")
	l := NewLocationLog(path, nil)

	empty, err := l.List()
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, l.Append(fix(`36.75`, `3.06`, `"2024-05-01T10:00:00Z"`)))
	require.NoError(t, l.Append(fix(`true`, `null`, `"a, b"`)))

	fixes, err := l.List()
	require.NoError(t, err)
	require.Len(t, fixes, 2)
	assert.JSONEq(t, `{"latitude":36.75,"longitude":3.06,"timestamp":"2024-05-01T10:00:00Z"}`, mustJSON(t, fixes[0]))
	assert.JSONEq(t, `{"latitude":true,"longitude":null,"timestamp":"a, b"}`, mustJSON(t, fixes[1]))
}

func TestLocationLogBroadcasts(t *testing.T) {
	hub := NewLocationHub()
	l := NewLocationLog(filepath.Join(t.TempDir(), "locations.csv"), hub)
	require.NoError(t, l.Append(fix(`1`, `2`, `3`)))

	select {
	case got := <-hub.ch:
		assert.Equal(t, json.RawMessage(`1`), got.Latitude)
	case <-time.After(time.Second):
		t.Fatal("fix was not broadcast")
	}
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
