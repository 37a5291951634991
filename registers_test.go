package goteco

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_registerStore_setNum_get(t *testing.T) {
	rs := newRegisterStore(newGlobalRegisters())
	a := regName{Char: 'A'}
	rs.setNum(a, 42)
	assert.Equal(t, 42, rs.get(a).Num)
}

func Test_registerStore_push_pop(t *testing.T) {
	rs := newRegisterStore(newGlobalRegisters())
	a, b := regName{Char: 'A'}, regName{Char: 'B'}
	rs.setText(a, "hello")
	rs.push(a)
	rs.setText(a, "changed")
	rs.pop(b)
	assert.Equal(t, "hello", rs.get(b).Text)
}

func Test_registerStore_pop_empty_raises_PES(t *testing.T) {
	rs := newRegisterStore(newGlobalRegisters())
	var err *Error
	func() {
		defer recoverRaise(&err)
		rs.pop(regName{Char: 'A'})
	}()
	require.NotNil(t, err)
	assert.Equal(t, PES, err.Kind)
}

func Test_registerStore_childLocal_isolated(t *testing.T) {
	rs := newRegisterStore(newGlobalRegisters())
	loc := regName{Char: 'A', Local: true}
	rs.setNum(loc, 7)

	child := rs.childLocal()
	assert.Equal(t, 0, child.get(loc).Num)

	same := rs.sameLocal()
	assert.Equal(t, 7, same.get(loc).Num)
}

// Test_registerStore_push_pop_restores_struct exercises push/pop across a
// whole register value (Num and Text together), diffing the restored
// struct against the original snapshot rather than field-by-field, so a
// regression that corrupts Num while leaving Text alone would show up.
func Test_registerStore_push_pop_restores_struct(t *testing.T) {
	rs := newRegisterStore(newGlobalRegisters())
	a, b := regName{Char: 'A'}, regName{Char: 'B'}
	rs.set(a, register{Num: 3, Text: "abc"})

	want := rs.get(a)
	rs.push(a)
	rs.set(a, register{Num: 99, Text: "clobbered"})
	rs.pop(b)

	got := rs.get(b)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("register snapshot mismatch (-want +got):\n%s", diff)
	}
}

func Test_parseRegName(t *testing.T) {
	n, ok := parseRegName("A")
	require.True(t, ok)
	assert.Equal(t, regName{Char: 'A'}, n)

	n, ok = parseRegName(".b")
	require.True(t, ok)
	assert.Equal(t, regName{Char: 'B', Local: true}, n)

	_, ok = parseRegName("!")
	assert.False(t, ok)
}
