package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSecretFromEnv(t *testing.T) {
	t.Setenv("LFRELENG_TEST_SECRET", "from-env")

	var stderr bytes.Buffer
	a := NewAdapter(strings.NewReader(""), &stderr)

	secret, err := a.ReadSecret("Password: ", "LFRELENG_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-env", secret)
	assert.Empty(t, stderr.String(), "env-supplied secrets must not prompt")
}

func TestReadSecretNonInteractive(t *testing.T) {
	var stderr bytes.Buffer
	a := NewAdapter(strings.NewReader("typed\n"), &stderr)

	_, err := a.ReadSecret("Password: ", "")
	assert.ErrorContains(t, err, "non-interactive")
}

func TestIsInteractive(t *testing.T) {
	a := NewAdapter(strings.NewReader(""), &bytes.Buffer{})
	assert.False(t, a.IsInteractive())
}
