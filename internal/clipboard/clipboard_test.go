package clipboard_test

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yiblet/omikuji/internal/clipboard"
	"github.com/yiblet/omikuji/internal/clipboard/mockboard"
	"github.com/yiblet/omikuji/internal/clipboard/sysboard"
)

var (
	_ clipboard.Clipboard = (*mockboard.MockClipboard)(nil)
	_ clipboard.Clipboard = (*sysboard.SystemClipboard)(nil)
)

func TestCopy(t *testing.T) {
	cb := mockboard.New()
	msg, err := clipboard.Copy(cb, "Great Blessing")
	require.NoError(t, err)
	assert.Equal(t, "Great Blessing", cb.Text())
	assert.Equal(t, 1, cb.Writes())
	assert.Contains(t, msg, "Great Blessing")
}

func TestCopy_Unsupported(t *testing.T) {
	cb := mockboard.New()
	cb.Unsupported = true
	_, err := clipboard.Copy(cb, "x")
	assert.ErrorIs(t, err, clipboard.ErrUnsupported)
	assert.Equal(t, 0, cb.Writes())

	_, err = clipboard.Copy(nil, "x")
	assert.ErrorIs(t, err, clipboard.ErrUnsupported)
}

func TestCopy_WriteError(t *testing.T) {
	boom := errors.New("locked")
	cb := mockboard.New()
	cb.Err = boom
	_, err := clipboard.Copy(cb, "x")
	assert.ErrorIs(t, err, boom)
}

func TestSystemClipboard(t *testing.T) {
	if os.Getenv("OMIKUJI_TEST_CLIPBOARD") == "" {
		t.Skip("set OMIKUJI_TEST_CLIPBOARD=1 to exercise the system clipboard")
	}
	cb := sysboard.New()
	if !cb.IsSupported() {
		t.Skip("no clipboard available")
	}
	require.NoError(t, cb.Write("omikuji clipboard test"))
}
