package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_HarnessScenarios(t *testing.T) {
	out, err := runCLI(t, "check", "../harness/testdata/scenarios", "--format", "json")
	require.NoError(t, err)

	var result CheckResult
	decodeData(t, out, &result)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Passed)

	golden := map[string]string{}
	for _, s := range result.Scenarios {
		golden[s.Name] = s.Golden
	}
	assert.Equal(t, "match", golden["jaw_bake"])
	assert.Equal(t, "match", golden["mirror_neutral"])
	assert.Equal(t, "", golden["latency_smooth"])
}

func TestCheck_Filter(t *testing.T) {
	out, err := runCLI(t, "check", "../harness/testdata/scenarios", "--filter", "mirror_*")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ mirror_neutral")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestCheck_FailingScenario(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`
name: wrong
description: "expects the wrong jaw value"
steps:
  - op: frame
    weights: { JawOpen: 0.5 }
  - op: apply
assertions:
  - type: weight
    name: JawOpen
    value: 0.25
`), 0644))

	out, err := runCLI(t, "check", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "Expected: JawOpen = 0.25")

	// Golden updates do not hide assertion failures.
	_, err = runCLI(t, "check", dir, "--update")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(root, "golden", "wrong.golden"))
	assert.NoError(t, statErr)
}

func TestCheck_MissingDirectory(t *testing.T) {
	_, err := runCLI(t, "check", filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_Empty(t *testing.T) {
	out, err := runCLI(t, "check", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}
