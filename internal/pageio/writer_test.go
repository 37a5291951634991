package pageio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Writer_promote(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out.txt")

	w, err := Create(name)
	require.NoError(t, err)
	require.NoError(t, w.WriteString("one\r\n"))
	require.NoError(t, w.WriteString("two\n"))
	require.NoError(t, w.Promote())

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func Test_Writer_discard(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out.txt")

	w, err := Create(name)
	require.NoError(t, err)
	tmpName := w.tmp.Name()
	require.NoError(t, w.WriteString("scratch"))
	require.NoError(t, w.Discard())

	_, err = os.Stat(name)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(tmpName)
	assert.True(t, os.IsNotExist(err))
}

func Test_Writer_promoteWithBackup(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(name, []byte("old"), 0644))

	w, err := Create(name)
	require.NoError(t, err)
	require.NoError(t, w.WriteString("new"))
	require.NoError(t, w.PromoteWithBackup())

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	backup, err := os.ReadFile(name + "~")
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup))
}
