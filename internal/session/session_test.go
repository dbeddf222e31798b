package session_test

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halverson/walletsync/internal/session"
)

func TestFlagStoreLifecycle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	flag := session.NewFlagStore(dir)
	assert.False(t, flag.IsSet())

	require.NoError(t, flag.Set())
	assert.True(t, flag.IsSet())

	require.NoError(t, flag.Clear())
	assert.False(t, flag.IsSet())
}

func TestFlagStoreClearIdempotent(t *testing.T) {
	t.Parallel()
	flag := session.NewFlagStore(t.TempDir())

	require.NoError(t, flag.Clear())
	require.NoError(t, flag.Clear())
}

func TestFlagStoreCorruptFileTreatedAsUnset(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	flag := session.NewFlagStore(dir)
	require.NoError(t, os.WriteFile(flag.Path(), []byte("{not json"), 0o600))

	assert.False(t, flag.IsSet())

	// The corrupt file was moved aside, not left in place.
	_, err := os.Stat(flag.Path())
	assert.True(t, os.IsNotExist(err))

	matches, err := filepath.Glob(flag.Path() + ".corrupt.*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFlagStoreCreatesDirectory(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested", "home")

	flag := session.NewFlagStore(dir)
	require.NoError(t, flag.Set())
	assert.True(t, flag.IsSet())
}

func TestScratchPutGet(t *testing.T) {
	t.Parallel()
	scratch := session.NewScratch(t.TempDir())

	_, ok := scratch.Get("key")
	assert.False(t, ok)

	require.NoError(t, scratch.Put("key", "value"))
	require.NoError(t, scratch.Put("other", "x"))

	v, ok := scratch.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestScratchClear(t *testing.T) {
	t.Parallel()
	scratch := session.NewScratch(t.TempDir())

	require.NoError(t, scratch.Put("key", "value"))
	require.NoError(t, scratch.Clear())

	_, ok := scratch.Get("key")
	assert.False(t, ok)

	// Clearing again is fine.
	require.NoError(t, scratch.Clear())
}

func TestScratchCorruptFileTreatedAsEmpty(t *testing.T) {
	t.Parallel()
	scratch := session.NewScratch(t.TempDir())

	require.NoError(t, os.WriteFile(scratch.Path(), []byte("garbage"), 0o600))

	_, ok := scratch.Get("key")
	assert.False(t, ok)

	// Writes work again after the corrupt file is moved aside.
	require.NoError(t, scratch.Put("key", "value"))
	v, ok := scratch.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestSignalClassifier(t *testing.T) {
	t.Parallel()
	c := session.SignalClassifier{}

	assert.Equal(t, session.EndReload, c.Classify(syscall.SIGHUP))
	assert.Equal(t, session.EndClose, c.Classify(syscall.SIGINT))
	assert.Equal(t, session.EndClose, c.Classify(syscall.SIGTERM))
	assert.Equal(t, session.EndClose, c.Classify(os.Interrupt))
}

func TestEndCloseClearsState(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	flag := session.NewFlagStore(dir)
	scratch := session.NewScratch(dir)
	require.NoError(t, flag.Set())
	require.NoError(t, scratch.Put("key", "value"))

	require.NoError(t, session.End(session.EndClose, flag, scratch))

	assert.False(t, flag.IsSet())
	_, ok := scratch.Get("key")
	assert.False(t, ok)
}

func TestEndReloadKeepsState(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	flag := session.NewFlagStore(dir)
	scratch := session.NewScratch(dir)
	require.NoError(t, flag.Set())
	require.NoError(t, scratch.Put("key", "value"))

	require.NoError(t, session.End(session.EndReload, flag, scratch))

	assert.True(t, flag.IsSet())
	v, ok := scratch.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestEndKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "reload", session.EndReload.String())
	assert.Equal(t, "close", session.EndClose.String())
}

func TestEndNilStores(t *testing.T) {
	t.Parallel()
	require.NoError(t, session.End(session.EndClose, nil, nil))
}
