package goteco

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/goteco/internal/pageio"
)

func Test_cmdEJ(t *testing.T) {
	in := newTestInterp()

	lv := newLevel(in, "", in.regs, nil)
	lv.expr.num, lv.expr.hasNum = -1, true
	in.cmdEJ(lv)
	assert.Equal(t, 7, lv.expr.num)

	lv = newLevel(in, "", in.regs, nil)
	lv.expr.num, lv.expr.hasNum = 0, true
	in.cmdEJ(lv)
	assert.Equal(t, os.Getppid()%256, lv.expr.num)

	lv = newLevel(in, "", in.regs, nil)
	lv.expr.num, lv.expr.hasNum = 1, true
	in.cmdEJ(lv)
	assert.Equal(t, 0, lv.expr.num)

	lv = newLevel(in, "", in.regs, nil)
	lv.expr.num, lv.expr.hasNum = 2, true
	in.cmdEJ(lv)
	assert.Equal(t, os.Getuid(), lv.expr.num)
}

func Test_PW_dispatch_writes_without_advancing(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out.txt")

	in := newTestInterp()
	w, err := pageio.Create(name)
	require.NoError(t, err)
	in.out_[0] = w
	in.curOut = 0

	require.Nil(t, in.Execute("Ihello"+string(esc)))
	require.Nil(t, in.Execute("PW"))

	require.NoError(t, w.Promote())
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
