package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3x61/lx"
)

// execute runs the lx command with args over the given stdin and returns what
// it printed.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("LX_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	var out, errOut bytes.Buffer
	cmd := newLxCmd(strings.NewReader(stdin), &out, &errOut)
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestREPLEvaluatesLinesAndKeepsResult(t *testing.T) {
	out, errOut, err := execute(t, "1 + 2\n_ * 2\n")
	require.NoError(t, err)
	assert.Equal(t, "3\n6\n", out)
	assert.Empty(t, errOut)
}

func TestREPLSubcommand(t *testing.T) {
	out, _, err := execute(t, "\"hi\"\n", "repl")
	require.NoError(t, err)
	assert.Equal(t, "\"hi\"\n", out)
}

func TestREPLJoinsIncompleteEntries(t *testing.T) {
	out, errOut, err := execute(t, "let x = 1 in\nx + 1\n(λy.\ny) 7\n")
	require.NoError(t, err)
	assert.Equal(t, "2\n7\n", out)
	assert.Empty(t, errOut)
}

func TestREPLContinuesAfterErrors(t *testing.T) {
	out, errOut, err := execute(t, "y\n1 / 0\n_\n5\n")
	require.NoError(t, err)
	assert.Equal(t, "null\n5\n", out)
	assert.Contains(t, errOut, "NotDefined in <repl> at 1:1: y")
	assert.Contains(t, errOut, "DivisionByZero")
}

func TestREPLReportsTruncatedEntryAtEOF(t *testing.T) {
	out, errOut, err := execute(t, "let x = 1 in\n")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "SyntaxError")
}

func TestREPLCommands(t *testing.T) {
	out, _, err := execute(t, ":env\n:quit\n1\n")
	require.NoError(t, err)
	assert.Contains(t, out, "--- scope 0 ---")
	assert.Contains(t, out, "_ = null")
	assert.Contains(t, out, "add = <native add/2>")
	assert.NotContains(t, out, "\n1\n")

	out, _, err = execute(t, ":nope\n")
	require.NoError(t, err)
	assert.Contains(t, out, "unknown command")
}

func TestREPLExit(t *testing.T) {
	out, _, err := execute(t, "exit 3\n1\n")
	var ee *lx.ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.Code)
	assert.Equal(t, 3, exitCode(err))
	assert.Empty(t, out)
}

func TestREPLMaxDepthFlag(t *testing.T) {
	src := "let rec f = λn. if n == 0 then 0 else f (n - 1) in f 1000\n"
	_, errOut, err := execute(t, src, "--max-depth", "50")
	require.NoError(t, err)
	assert.Contains(t, errOut, "DepthExceeded")

	out, errOut, err := execute(t, src)
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
	assert.Empty(t, errOut)
}

func TestRunFiles(t *testing.T) {
	good := writeFile(t, "good.lx", "let rec fact = λn. if n == 0 then 1 else n * fact (n - 1) in fact 5\n")
	out, _, err := execute(t, "", "run", good)
	require.NoError(t, err)
	assert.Equal(t, "120\n", out)
}

func TestRunAggregatesFailures(t *testing.T) {
	bad1 := writeFile(t, "bad1.lx", "1 +\n")
	good := writeFile(t, "good.lx", "\"ok\"")
	bad2 := writeFile(t, "bad2.lx", "if 1 then 2 else 3")
	out, _, err := execute(t, "", "run", bad1, good, bad2)
	require.Error(t, err)
	assert.Equal(t, "\"ok\"\n", out)

	var multi *multierror.Error
	require.True(t, errors.As(err, &multi))
	assert.Len(t, multi.WrappedErrors(), 2)
	msg := errorMessage(err)
	assert.Contains(t, msg, "2 errors occurred:")
	assert.Contains(t, msg, "SyntaxError in "+bad1)
	assert.Contains(t, msg, "NotABoolean in "+bad2)
	assert.Equal(t, 1, exitCode(err))
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "run", filepath.Join(t.TempDir(), "missing.lx"))
	require.Error(t, err)
	assert.Contains(t, errorMessage(err), "cannot read")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRunExitStopsEverything(t *testing.T) {
	first := writeFile(t, "first.lx", "exit 4")
	second := writeFile(t, "second.lx", "1")
	out, _, err := execute(t, "", "run", first, second)
	assert.Equal(t, 4, exitCode(err))
	assert.Empty(t, out)
}

func TestRunEnvNativeWritesToStdout(t *testing.T) {
	path := writeFile(t, "env.lx", "let x = 1 in env null")
	out, _, err := execute(t, "", "run", "-q", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "--- scope 0 ---\nx = 1\n--- scope 1 ---\n"), out)
}

func TestTokensCommand(t *testing.T) {
	out, _, err := execute(t, "let x = 1 in x", "tokens", "-")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`1:0 LET "let"`,
		`1:4 ID "x"`,
		`1:6 ASSIGN "="`,
		`1:8 NUMBER "1"`,
		`1:10 IN "in"`,
		`1:13 ID "x"`,
		`1:14 EOF ""`,
	}, "\n")+"\n", out)
}

func TestASTCommand(t *testing.T) {
	out, _, err := execute(t, "f a b + 1", "ast", "-")
	require.NoError(t, err)
	assert.Equal(t, "(prog (+ (app (app f a) b) 1))\n", out)

	_, _, err = execute(t, "(1", "ast", "-")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lx.ErrSyntax))
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "lx version "+version+"\n", out)
}

func TestConfigFileIsHonoured(t *testing.T) {
	cfgPath := writeFile(t, "lx.yaml", "max-depth: 5\n")
	_, errOut, err := execute(t, "(λa. λb. λc. a + b + c) 1 2 3\n", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, errOut, "DepthExceeded")

	bad := writeFile(t, "bad.yaml", "colour: true\n")
	_, _, err = execute(t, "", "--config", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config "+bad)
}
