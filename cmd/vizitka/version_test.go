package main

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/vizitka/slogan"
)

func stampBuild(t *testing.T, v, c, d string) {
	t.Helper()
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() { version, commit, date = origVersion, origCommit, origDate })
	version, commit, date = v, c, d
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionPrintsBuildDetails(t *testing.T) {
	stampBuild(t, "1.2.3", "abcdef1", "2026-03-01")

	out, err := runRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vizitka 1.2.3 (abcdef1, built 2026-03-01)")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, "slogan model: "+slogan.DefaultModel)
}

func TestVersionShort(t *testing.T) {
	stampBuild(t, "1.2.3", "abcdef1", "2026-03-01")

	out, err := runRoot(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestVersionRejectsArguments(t *testing.T) {
	_, err := runRoot(t, "version", "extra")
	assert.Error(t, err)
}
