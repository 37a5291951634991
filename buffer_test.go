package goteco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buffer_insert_delete(t *testing.T) {
	var b buffer
	n := b.insert("hello")
	assert.Equal(t, -5, n)
	assert.Equal(t, "hello", b.String())
	assert.Equal(t, 5, b.dot)

	b.dot = 0
	b.insert("abc")
	assert.Equal(t, "abchello", b.String())
	assert.Equal(t, 3, b.dot)

	b.delete(3)
	assert.Equal(t, "abclo", b.String())
	assert.Equal(t, 3, b.dot)
}

func Test_buffer_delete_negative(t *testing.T) {
	var b buffer
	b.insert("abcdef")
	b.dot = 4
	b.delete(-2)
	assert.Equal(t, "abef", b.String())
	assert.Equal(t, 2, b.dot)
}

func Test_buffer_checkRange_raises_POP(t *testing.T) {
	var b buffer
	b.insert("abc")
	var err *Error
	func() {
		defer func() { recoverRaise(&err) }()
		b.moveDot(10, "C")
	}()
	require.NotNil(t, err)
	assert.Equal(t, POP, err.Kind)
}

func Test_buffer_line(t *testing.T) {
	var b buffer
	b.insert("one\ntwo\nthree\n")
	b.dot = 0
	assert.Equal(t, 4, b.line(1))
	assert.Equal(t, 8, b.line(2))

	// dot sits mid-line, in "three"
	b.dot = 10
	assert.Equal(t, 8, b.line(0))
	assert.Equal(t, 4, b.line(-1))
	assert.Equal(t, 0, b.line(-2))
	assert.Equal(t, 0, b.line(-3))
}

func Test_buffer_deleteRange(t *testing.T) {
	var b buffer
	b.insert("abcdef")
	b.dot = 6
	b.deleteRange(1, 3)
	assert.Equal(t, "adef", b.String())
	assert.Equal(t, 4, b.dot)
}

func Test_buffer_clear(t *testing.T) {
	var b buffer
	b.insert("abc")
	b.clear()
	assert.Equal(t, "", b.String())
	assert.Equal(t, 0, b.dot)
}
