package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/estatecalc/internal/scenario"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useTempDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DB_PATH", path)
	return path
}

func TestAnalyzeSampleMarkdown(t *testing.T) {
	useTempDB(t)

	out, err := execute(t, "analyze", "--sample", "tokyo-wood-apartment")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# tokyo-wood-apartment\n"))
	assert.Contains(t, out, "## Cash flow")
}

func TestAnalyzeFileFormats(t *testing.T) {
	useTempDB(t)
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: cli-file
fixed:
  bd_price: 20000000
  ld_price: 10000000
  bd_room_count: 5
years:
  1:
    bd_rent_income: 80000
    bd_empty_ratio: 0.1
    ln_monthes: 24
`), 0o600))

	out, err := execute(t, "analyze", "-f", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"outputs"`)

	out, err = execute(t, "analyze", "-f", path, "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>cli-file</h1>")

	report := filepath.Join(t.TempDir(), "report.md")
	out, err = execute(t, "analyze", "-f", path, "-o", report)
	require.NoError(t, err)
	assert.Empty(t, out)
	written, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(written), "# cli-file")

	_, err = execute(t, "analyze", "-f", path, "--format", "pdf")
	assert.Error(t, err)
}

func TestAnalyzeEmitsCompletedScenario(t *testing.T) {
	useTempDB(t)
	path := filepath.Join(t.TempDir(), "completed.yaml")

	_, err := execute(t, "analyze", "--sample", "tokyo-wood-apartment", "--emit-scenario", path)
	require.NoError(t, err)

	sc, err := scenario.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tokyo-wood-apartment", sc.Name)
	assert.Len(t, sc.Years, 23)

	d, err := sc.Dataset()
	require.NoError(t, err)
	require.NotEmpty(t, d.FixedCells)
	assert.Equal(t, "bd_price", d.FixedCells[0].Key)
	assert.Equal(t, "20000000", *d.FixedCells[0].Value)
	assert.Len(t, d.YearlyCells, 23)
}

func TestAnalyzeRequiresInput(t *testing.T) {
	useTempDB(t)

	_, err := execute(t, "analyze")
	assert.Error(t, err)

	_, err = execute(t, "analyze", "--sample", "atlantis")
	assert.ErrorContains(t, err, "unknown sample")
}

func TestAnalyzeReportsStoppedRun(t *testing.T) {
	useTempDB(t)
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: empty\n"), 0o600))

	out, err := execute(t, "analyze", "-f", path)

	assert.ErrorContains(t, err, "analysis stopped")
	assert.Contains(t, out, "No year could be computed.")
}

func TestAnalyzeSaveAndMigrate(t *testing.T) {
	dbPath := useTempDB(t)

	_, err := execute(t, "analyze", "--sample", "osaka-rc-mansion", "--save", "--format", "json")
	require.NoError(t, err)

	out, err := execute(t, "migrate", "--seed")
	require.NoError(t, err)
	assert.Contains(t, out, dbPath+" at schema version 2")
	assert.Contains(t, out, "seeded scenarios: 2 inserted, 0 updated")

	out, err = execute(t, "migrate", "--seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded scenarios: 0 inserted, 0 updated")
}

func TestScenariosCommand(t *testing.T) {
	out, err := execute(t, "scenarios")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "osaka-rc-mansion")
	assert.Contains(t, out, "tokyo-wood-apartment")

	out, err = execute(t, "scenarios", "--show", "osaka-rc-mansion")
	require.NoError(t, err)
	assert.Contains(t, out, "name: osaka-rc-mansion")

	_, err = execute(t, "scenarios", "--show", "nowhere")
	assert.Error(t, err)
}
