package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: cadence-clean
key: {tonic: C, mode: major}
chords:
  - {b: C3, t: E3, a: G3, s: C4}
  - {b: G2, t: D3, a: B3, s: F4}
  - {b: C3, t: C3, a: C4, s: E4}
expect:
  clean: true
`

const failingScenario = `
name: cadence-broken
key: {tonic: C, mode: major}
chords:
  - {b: C3, t: E3, a: G3, s: C4}
  - {b: G2, t: D3, a: B3, s: F4}
expect:
  violations:
    - {rule: parallel_fifths}
`

func writeScenarioDir(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range scenarios {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func execTest(t *testing.T, format string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestCommand_AllPassing(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"clean.yaml": passingScenario})

	buf, err := execTest(t, "text", dir)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ cadence-clean")
	assert.Contains(t, output, "1 passed, 0 failed, 1 total")
}

func TestCommand_FailureSetsExitCode(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"clean.yaml":  passingScenario,
		"broken.yaml": failingScenario,
	})

	buf, err := execTest(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "✗ cadence-broken")
	assert.Contains(t, output, "1 passed, 1 failed, 2 total")
}

func TestCommand_Filter(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"clean.yaml":  passingScenario,
		"broken.yaml": failingScenario,
	})

	buf, err := execTest(t, "text", dir, "--filter", "clean")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 passed, 0 failed, 1 total")
}

func TestCommand_JSONOutput(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"clean.yaml":  passingScenario,
		"broken.yaml": failingScenario,
	})

	buf, err := execTest(t, "json", dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, marshalErr := json.Marshal(resp.Data)
	require.NoError(t, marshalErr)
	var result TestResult
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
}

func TestCommand_LoadErrorReported(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"bad.yaml": "name: x\n"})

	buf, err := execTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Load error")
}

func TestCommand_MissingDirectory(t *testing.T) {
	_, err := execTest(t, "text", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCommand_EmptyDirectory(t *testing.T) {
	buf, err := execTest(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No scenarios found")
}

func TestCommand_GoldenUpdateAndCompare(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"clean.yaml": passingScenario})

	buf, err := execTest(t, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "golden updated")

	goldenPath := filepath.Join(dir, "golden", "clean.golden")
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name":"cadence-clean"`)

	// A second run compares against the fresh golden and passes.
	buf, err = execTest(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ cadence-clean")

	// Tampering with the golden file turns the scenario into a failure.
	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"scenario_name":"other"}`), 0o644))
	buf, err = execTest(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "does not match golden file")
}
