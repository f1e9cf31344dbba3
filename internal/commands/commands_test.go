package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	checkingFixture = "../../testdata/skandia_checking.csv"
	savingsFixture  = "../../testdata/skandia_savings.csv"
)

const testConfigYAML = `default_account: ""
currency: SEK

accounts:
  "9151-123.456-7": "Assets:SE:Skandia:Checking"
  "9151-765.432-1": "Assets:SE:Skandia:Savings"

balances:
  enabled: true
  granularity: daily

rules:
  enabled: true
  default_counter: "Equity:Unknown"
  map:
    "SATS": "Expenses:Health:Gym"
    "UNIONEN": "Expenses:Unionen"

transfers:
  enabled: true
  classify_account: "Expenses:Transfers:Internal"
  keywords: ["överföring", "överforing", "overforing"]
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skanbean.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestIdentify_MatchingFile(t *testing.T) {
	stdout, _, err := run(t, "identify", checkingFixture)
	require.NoError(t, err)
	assert.Contains(t, stdout, checkingFixture+" ... OK (skandia)")
}

func TestIdentify_NonMatchingFileIsNotAnError(t *testing.T) {
	other := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(other, []byte("Date,Description,Amount\n"), 0o644))

	stdout, _, err := run(t, "identify", other, checkingFixture)
	require.NoError(t, err)
	assert.Contains(t, stdout, other+" ... SKIP (no matching format)")
	assert.Contains(t, stdout, checkingFixture+" ... OK (skandia)")
}

func TestIdentify_UnreadableFileFails(t *testing.T) {
	_, _, err := run(t, "identify", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestExtract_FullPipeline(t *testing.T) {
	cfgPath := writeTestConfig(t, testConfigYAML)

	stdout, stderr, err := run(t, "extract", "--config", cfgPath, checkingFixture, savingsFixture)
	require.NoError(t, err)

	want := `2025-08-22 * "Autogiro SATS" ""
  Assets:SE:Skandia:Checking  -549 SEK
  Expenses:Health:Gym  549 SEK

2025-08-22 balance Assets:SE:Skandia:Checking 11875.5 SEK

2025-08-25 * "Överföring till sparkonto" ""
  Assets:SE:Skandia:Checking  -1000 SEK
  Assets:SE:Skandia:Savings  1000 SEK

2025-08-25 * "Swish Johanna Larsson" ""
  Assets:SE:Skandia:Checking  -250 SEK
  Equity:Unknown  250 SEK

2025-08-25 balance Assets:SE:Skandia:Checking 10625.5 SEK

2025-08-25 balance Assets:SE:Skandia:Savings 6000 SEK

2025-08-26 * "Lön Augusti" ""
  Assets:SE:Skandia:Checking  32000 SEK
  Equity:Unknown  -32000 SEK

2025-08-26 * "UNIONEN Medlemsavgift" ""
  Assets:SE:Skandia:Checking  -225 SEK
  Expenses:Unionen  225 SEK

2025-08-26 balance Assets:SE:Skandia:Checking 42400.5 SEK
`
	assert.Equal(t, want, stdout)

	// The Summa footer row is reported, never silently dropped.
	assert.Contains(t, stderr, "warning:")
	assert.Contains(t, stderr, "Summa")
}

func TestExtract_WritesToFile(t *testing.T) {
	cfgPath := writeTestConfig(t, testConfigYAML)
	outPath := filepath.Join(t.TempDir(), "ledger.beancount")

	stdout, _, err := run(t, "extract", "--config", cfgPath, "-o", outPath, checkingFixture)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `2025-08-22 * "Autogiro SATS" ""`)
}

func TestExtract_UnmappedAccountAborts(t *testing.T) {
	cfgPath := writeTestConfig(t, "accounts:\n  \"other\": \"Assets:Other\"\n")

	stdout, _, err := run(t, "extract", "--config", cfgPath, checkingFixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "9151-123.456-7")
	assert.Empty(t, stdout) // no partial output on fatal error
}

func TestExtract_DefaultAccountFlagCoversUnmapped(t *testing.T) {
	stdout, _, err := run(t, "extract", "--account", "Assets:SE:Skandia:Default", checkingFixture)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Assets:SE:Skandia:Default")
}

func TestExtract_NoMatchingFormatIsFatal(t *testing.T) {
	other := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(other, []byte("Date,Description,Amount\n"), 0o644))

	_, _, err := run(t, "extract", "--account", "Assets:A", other)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching statement format")
}

func TestExtract_MissingExplicitConfigFails(t *testing.T) {
	_, _, err := run(t, "extract", "--config", filepath.Join(t.TempDir(), "nope.yaml"), checkingFixture)
	require.Error(t, err)
}

func TestArchive_CopyMode(t *testing.T) {
	cfgPath := writeTestConfig(t, testConfigYAML)
	dir := t.TempDir()

	src := filepath.Join(dir, "export.csv")
	data, err := os.ReadFile(checkingFixture)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, data, 0o644))

	archiveDir := filepath.Join(dir, "archive")
	stdout, _, err := run(t, "archive", "--config", cfgPath, "--mode", "copy", "--archive-dir", archiveDir, src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Archived to:")

	dst := filepath.Join(archiveDir, "skandia-Assets-SE-Skandia-Checking-2025-08-31.csv")
	_, err = os.Stat(dst)
	require.NoError(t, err)
	_, err = os.Stat(src) // copy keeps the original
	require.NoError(t, err)
}

func TestArchive_MoveModeIsUniqueSuffixed(t *testing.T) {
	cfgPath := writeTestConfig(t, testConfigYAML)
	dir := t.TempDir()
	archiveDir := filepath.Join(dir, "archive")

	data, err := os.ReadFile(checkingFixture)
	require.NoError(t, err)

	for i, name := range []string{"a.csv", "b.csv"} {
		src := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(src, data, 0o644))
		_, _, err := run(t, "archive", "--config", cfgPath, "--archive-dir", archiveDir, src)
		require.NoError(t, err)

		if i == 1 {
			_, err = os.Stat(filepath.Join(archiveDir, "skandia-Assets-SE-Skandia-Checking-2025-08-31-1.csv"))
			require.NoError(t, err)
		}
		_, err = os.Stat(src) // move removes the original
		require.Error(t, err)
	}
}

func TestArchive_InvalidMode(t *testing.T) {
	_, _, err := run(t, "archive", "--mode", "shred", checkingFixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shred")
}
