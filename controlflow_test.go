package goteco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_skipOneCommand_atsign_delimited covers spec §8 scenario 6: a
// conditional whose true branch contains an at-sign-delimited string
// argument must scan over it using the same delimiter, not ESC.
func Test_skipOneCommand_atsign_delimited(t *testing.T) {
	in := newTestInterp()
	// 0"N is false, so the true branch (the at-sign-delimited insert) must
	// be skipped over using '/' as the delimiter, not ESC, or this raises
	// UTC instead of completing.
	err := in.Execute(`0"N @I/full/'`)
	require.Nil(t, err)
	assert.Equal(t, "", in.Text())
}

func Test_skipOneCommand_atsign_delimited_two_strings(t *testing.T) {
	in := newTestInterp()
	err := in.Execute("Ihello world" + string(esc))
	require.Nil(t, err)
	err = in.Execute(`J0"N @FS/world/there/'`)
	require.Nil(t, err)
	assert.Equal(t, "hello world", in.Text())
}

func Test_skipOneCommand_atsign_caretU(t *testing.T) {
	in := newTestInterp()
	err := in.Execute(`0"N @^Uq/text/'`)
	require.Nil(t, err)
}
