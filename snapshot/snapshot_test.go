package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-dashboard/utils"
)

func TestFindChromeBinaryPrefersEnv(t *testing.T) {
	t.Setenv("CHROME_BIN", "/opt/custom/chrome")
	assert.Equal(t, "/opt/custom/chrome", FindChromeBinary())
}

func TestNewUsesExplicitBinary(t *testing.T) {
	t.Setenv("CHROME_BIN", "/from/env")
	c := New("/explicit/chrome", 2, utils.Discard())
	assert.Equal(t, "/explicit/chrome", c.chromeBin)
	assert.Equal(t, 2, c.retry.MaxAttempts)
}

func TestNewFallsBackToLookup(t *testing.T) {
	t.Setenv("CHROME_BIN", "/from/env")
	c := New("", 1, utils.Discard())
	assert.Equal(t, "/from/env", c.chromeBin)
}

func TestCaptureRequiresURL(t *testing.T) {
	c := New("/explicit/chrome", 1, utils.Discard())
	err := c.Capture(context.Background(), "", t.TempDir()+"/out.png")
	require.ErrorIs(t, err, ErrNoURL)
}

func TestCaptureRequiresPath(t *testing.T) {
	c := New("/explicit/chrome", 1, utils.Discard())
	err := c.Capture(context.Background(), "http://127.0.0.1:1/", "")
	require.Error(t, err)
}
