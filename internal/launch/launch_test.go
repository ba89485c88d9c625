package launch

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSh(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestRun_Success(t *testing.T) {
	sh := requireSh(t)
	var out bytes.Buffer
	r := &Runner{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out}

	code, err := r.Run(context.Background(), sh, ShellArgs(sh, "echo hi")...)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hi\n", out.String())
}

func TestRun_NonZeroExit(t *testing.T) {
	sh := requireSh(t)
	var out bytes.Buffer
	r := &Runner{Stdin: strings.NewReader(""), Stdout: &out, Stderr: &out}

	code, err := r.Run(context.Background(), sh, "-c", "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestRun_Stdin(t *testing.T) {
	sh := requireSh(t)
	var out bytes.Buffer
	r := &Runner{Stdin: strings.NewReader("piped\n"), Stdout: &out, Stderr: &out}

	_, err := r.Run(context.Background(), sh, "-c", "cat")
	require.NoError(t, err)
	assert.Equal(t, "piped\n", out.String())
}

func TestRun_StartFailure(t *testing.T) {
	r := &Runner{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	code, err := r.Run(context.Background(), "/nonexistent/idiff-editor")
	require.ErrorIs(t, err, ErrStart)
	assert.Equal(t, -1, code)
}

func TestShellArgs(t *testing.T) {
	assert.Equal(t, []string{"-c", "ls -l"}, ShellArgs("/bin/sh", "ls -l"))
}
