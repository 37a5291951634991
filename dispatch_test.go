package goteco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInterp() *Interp {
	return New()
}

func Test_Execute_insert_and_dot(t *testing.T) {
	in := newTestInterp()
	err := in.Execute("Ihello world" + string(esc))
	require.Nil(t, err)
	assert.Equal(t, "hello world", in.Text())
	assert.Equal(t, 11, in.Dot())
}

func Test_Execute_move_and_delete(t *testing.T) {
	in := newTestInterp()
	require.Nil(t, in.Execute("Ihello world"+string(esc)))
	require.Nil(t, in.Execute("J"))
	require.Nil(t, in.Execute("5D"))
	assert.Equal(t, " world", in.Text())
	assert.Equal(t, 0, in.Dot())
}

func Test_Execute_register_roundtrip(t *testing.T) {
	in := newTestInterp()
	require.Nil(t, in.Execute("10UA"))
	err := in.Execute("QA=" + string(esc))
	require.Nil(t, err)
}

func Test_Execute_illegal_command_reports_Error(t *testing.T) {
	in := newTestInterp()
	err := in.Execute("\x00")
	require.NotNil(t, err)
	assert.Equal(t, ILL, err.Kind)
}

func Test_Execute_iteration(t *testing.T) {
	in := newTestInterp()
	err := in.Execute("3<I*" + string(esc) + ">")
	require.Nil(t, err)
	assert.Equal(t, "***", in.Text())
}

func Test_Execute_conditional(t *testing.T) {
	in := newTestInterp()
	err := in.Execute(`1"GIyes` + string(esc) + `'`)
	require.Nil(t, err)
	assert.Equal(t, "yes", in.Text())

	in = newTestInterp()
	err = in.Execute(`0"GIyes` + string(esc) + `'`)
	require.Nil(t, err)
	assert.Equal(t, "", in.Text())
}

func Test_Execute_search(t *testing.T) {
	in := newTestInterp()
	require.Nil(t, in.Execute("Ione two three"+string(esc)))
	require.Nil(t, in.Execute("J"))
	err := in.Execute("Stwo" + string(esc))
	require.Nil(t, err)
	assert.Equal(t, 7, in.Dot())
}
