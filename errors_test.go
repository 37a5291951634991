package goteco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Error_message_formatting(t *testing.T) {
	e := &Error{Kind: ILL, Arg: "Q"}
	assert.Equal(t, `ILL: Illegal command "Q"`, e.Error())

	e = &Error{Kind: BNI}
	assert.Equal(t, "BNI: > not in iteration", e.Error())
}

func Test_raise_recoverRaise(t *testing.T) {
	var err *Error
	func() {
		defer recoverRaise(&err)
		raise(ARG, "")
	}()
	require.NotNil(t, err)
	assert.Equal(t, ARG, err.Kind)
}

func Test_recoverRaise_repanics_other_values(t *testing.T) {
	assert.Panics(t, func() {
		var err *Error
		defer recoverRaise(&err)
		panic("not a teco error")
	})
}

func Test_recoverRaise_no_panic(t *testing.T) {
	var err *Error
	ok := func() (caught bool) {
		defer func() { caught = recoverRaise(&err) }()
		return false
	}()
	assert.False(t, ok)
	assert.Nil(t, err)
}
