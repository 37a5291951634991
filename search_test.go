package goteco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_patternToRegex_escapes_special_chars(t *testing.T) {
	rs := newRegisterStore(newGlobalRegisters())
	assert.Equal(t, `a\.b`, patternToRegex("a.b", rs))
	assert.Equal(t, `a\(b\)`, patternToRegex("a(b)", rs))
}

func Test_patternToRegex_caret_forms(t *testing.T) {
	rs := newRegisterStore(newGlobalRegisters())
	assert.Equal(t, ".", patternToRegex("^X", rs))
	assert.Equal(t, `\W`, patternToRegex("^S", rs))
	assert.Equal(t, `\d`, patternToRegex("^ED", rs))
	assert.Equal(t, `\D`, patternToRegex("^N^ED", rs))
}

func Test_makeCharClass_dedups_and_escapes(t *testing.T) {
	assert.Equal(t, `[ab\]]`, makeCharClass("aab]"))
}

func Test_invertClass(t *testing.T) {
	assert.Equal(t, `[^abc]`, invertClass("[abc]"))
	assert.Equal(t, `[abc]`, invertClass("[^abc]"))
	assert.Equal(t, `\W`, invertClass(`\w`))
}

func Test_Interp_search_forward(t *testing.T) {
	in := newTestInterp()
	if err := in.Execute("Ione two three" + string(esc)); err != nil {
		t.Fatal(err)
	}
	if err := in.Execute("J"); err != nil {
		t.Fatal(err)
	}
	err := in.Execute("Sthree" + string(esc))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len("one two three"), in.Dot())
}
