package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestGraphCommand(t *testing.T) {
	out := execute(t, "graph", "--demo", "basic", "--ticks", "1")
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "Action5")
}

func TestInspectCommand(t *testing.T) {
	out := execute(t, "inspect", "--demo", "guard")
	assert.Contains(t, out, "# guard")
	assert.Contains(t, out, "**inverter**")
}

func TestDemosCommand(t *testing.T) {
	assert.Equal(t, "basic\nguard\n", execute(t, "demos"))
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "arbor version ")
}

func TestRunCommand(t *testing.T) {
	execute(t, "run", "--quiet", "--ticks", "3", "--stop-on", "failure", "--log-level", "error")
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	rootCmd.SetArgs([]string{"run", "--log-format", "xml"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	assert.Error(t, rootCmd.Execute())
}
