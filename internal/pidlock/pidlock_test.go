package pidlock

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bot.pid")
}

func TestAcquireAndRelease(t *testing.T) {
	path := lockPath(t)

	lock, err := Acquire(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(string(data[:len(data)-1]))
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, lock.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquireConflict(t *testing.T) {
	path := lockPath(t)

	lock, err := Acquire(path)
	require.NoError(t, err)
	defer lock.Release()

	// The current process is alive, so a second acquire must fail.
	_, err = Acquire(path)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestAcquireReplacesStaleLock(t *testing.T) {
	path := lockPath(t)

	// No process has this pid on any realistic system.
	require.NoError(t, os.WriteFile(path, []byte("999999999\n"), 0o644))

	lock, err := Acquire(path)
	require.NoError(t, err)
	defer lock.Release()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), strconv.Itoa(os.Getpid()))
}

func TestAcquireReplacesGarbageLock(t *testing.T) {
	path := lockPath(t)
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))

	lock, err := Acquire(path)
	require.NoError(t, err)
	defer lock.Release()
}

func TestReleaseTwice(t *testing.T) {
	path := lockPath(t)

	lock, err := Acquire(path)
	require.NoError(t, err)

	require.NoError(t, lock.Release())
	assert.NoError(t, lock.Release())
}
