package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-records/internal/config"
)

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, config.Config{StoreBackend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mem)

	file, err := Open(ctx, config.Config{StoreBackend: config.BackendFile, StudentsFile: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, file)
	require.NoError(t, file.Close())

	mr := miniredis.RunT(t)
	rs, err := Open(ctx, config.Config{StoreBackend: config.BackendRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, rs)
	require.NoError(t, rs.Close())

	_, err = Open(ctx, config.Config{StoreBackend: "sqlite"})
	assert.Error(t, err)
}
