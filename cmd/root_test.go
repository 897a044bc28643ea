package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, fs afero.Fs, stdin string, args ...string) result {
	t.Helper()

	var out, errw bytes.Buffer
	code := -1
	root := newRootCmd(fs, &code)
	root.SetArgs(append([]string{}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errw)

	err := root.Execute()
	return result{code: code, stdout: out.String(), stderr: errw.String(), err: err}
}

func TestUsage(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "", "a.txt", "b.txt")
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Usage: mysh [batchFile]\n", res.stderr)
	assert.Empty(t, res.stdout)
}

func TestBatchFileMissing(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "", "/no/such/batch")
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Error: Cannot open file /no/such/batch\n", res.stderr)
}

func TestBatchBuiltinsOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "batch.txt", []byte("jobs\nwait 3\nexit\njobs\n"), 0o644))

	res := execute(t, fs, "", "batch.txt")
	require.NoError(t, res.err)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "jobs\nwait 3\nexit\n", res.stdout)
	assert.Equal(t, "Invalid JID 3\n", res.stderr)
}

func TestInteractive(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "jobs\n")
	require.NoError(t, res.err)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "mysh> mysh> ", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestKillSwitch(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "&\njobs\n")
	require.NoError(t, res.err)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "mysh> exit\n", res.stdout)
}

func TestConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "mysh.yaml", []byte("prompt: \"% \"\n"), 0o644))

	res := execute(t, fs, "exit\n", "--config", "mysh.yaml")
	require.NoError(t, res.err)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "% ", res.stdout)
}

func TestConfigErrors(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "", "--config", "/missing.yaml")
	assert.Error(t, res.err)
	assert.Contains(t, res.stderr, "Error:")

	res = execute(t, afero.NewMemMapFs(), "", "--log-level", "loud")
	assert.Error(t, res.err)
}

func TestDebugLogsGoToStderr(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "jobs\n", "--log-level", "debug")
	require.NoError(t, res.err)
	assert.Equal(t, "mysh> mysh> ", res.stdout)
	assert.Contains(t, res.stderr, "shell started")
	assert.Contains(t, res.stderr, "session=")
}

func TestDashArgumentIsBatchFile(t *testing.T) {
	for _, arg := range []string{"-b", "--bogus", "-"} {
		t.Run(arg, func(t *testing.T) {
			res := execute(t, afero.NewMemMapFs(), "", arg)
			require.NoError(t, res.err)
			assert.Equal(t, 1, res.code)
			assert.Equal(t, "Error: Cannot open file "+arg+"\n", res.stderr)
		})
	}
}

func TestArgCountBeatsHelp(t *testing.T) {
	cases := [][]string{
		{"a", "-h"},
		{"--help", "a"},
		{"-h", "-h"},
	}
	for _, args := range cases {
		res := execute(t, afero.NewMemMapFs(), "", args...)
		require.NoError(t, res.err)
		assert.Equal(t, 1, res.code, "args %q", args)
		assert.Equal(t, "Usage: mysh [batchFile]\n", res.stderr, "args %q", args)
		assert.Empty(t, res.stdout, "args %q", args)
	}
}

func TestHelp(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		res := execute(t, afero.NewMemMapFs(), "", arg)
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.code)
		assert.Contains(t, res.stdout, "mysh [batchFile]")
		assert.Contains(t, res.stdout, "--config")
	}
}

func TestFlagForms(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "mysh.yaml", []byte("prompt: \"% \"\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "batch.txt", []byte("exit\n"), 0o644))

	res := execute(t, fs, "exit\n", "--config=mysh.yaml")
	require.NoError(t, res.err)
	assert.Equal(t, "% ", res.stdout)

	res = execute(t, fs, "", "batch.txt", "--log-level", "error")
	require.NoError(t, res.err)
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "exit\n", res.stdout)
}

func TestFlagWithoutValue(t *testing.T) {
	res := execute(t, afero.NewMemMapFs(), "", "--config")
	require.NoError(t, res.err)
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Usage: mysh [batchFile]\n", res.stderr)
}
