package pageio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Reader(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(name, []byte("one\ftwo\fthree"), 0644))

	r, err := Open(name)
	require.NoError(t, err)
	defer r.Close()

	text, ok := r.NextPage()
	assert.True(t, ok)
	assert.Equal(t, "one", text)
	assert.True(t, r.FF())
	assert.False(t, r.EOF())

	text, ok = r.NextPage()
	assert.True(t, ok)
	assert.Equal(t, "two", text)
	assert.True(t, r.FF())
	assert.False(t, r.EOF())

	text, ok = r.NextPage()
	assert.True(t, ok)
	assert.Equal(t, "three", text)
	assert.False(t, r.FF())
	assert.True(t, r.EOF())

	text, ok = r.NextPage()
	assert.False(t, ok)
	assert.Equal(t, "", text)
	assert.False(t, r.FF())
	assert.True(t, r.EOF())
}

func Test_Reader_singlePage(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(name, []byte("hello\nworld"), 0644))

	r, err := Open(name)
	require.NoError(t, err)
	defer r.Close()

	text, ok := r.NextPage()
	assert.True(t, ok)
	assert.Equal(t, "hello\nworld", text)
	assert.False(t, r.FF())
	assert.True(t, r.EOF())
}

func Test_Reader_missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
