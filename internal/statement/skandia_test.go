package statement

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) [][]string {
	t.Helper()
	f, err := os.Open("../../testdata/" + name)
	require.NoError(t, err)
	defer f.Close()

	grid, err := ReadGrid(f, "utf-8")
	require.NoError(t, err)
	return grid
}

func TestSkandia_Identify(t *testing.T) {
	grid := readFixture(t, "skandia_checking.csv")
	s := &Skandia{}
	assert.True(t, s.Identify(grid))
}

func TestSkandia_IdentifyRejectsOtherFormats(t *testing.T) {
	s := &Skandia{}
	assert.False(t, s.Identify([][]string{
		{"Details", "Posting Date", "Description", "Amount"},
		{"DEBIT", "01/03/2025", "desc", "-4.00"},
	}))
	assert.False(t, s.Identify(nil))
}

func TestSkandia_Parse(t *testing.T) {
	grid := readFixture(t, "skandia_checking.csv")
	s := &Skandia{}
	stmt, skipped, err := s.Parse(grid)
	require.NoError(t, err)

	assert.Equal(t, "skandia", stmt.Format)
	assert.Equal(t, "9151-123.456-7", stmt.AccountNumber)
	assert.Equal(t, "2025-08-31", stmt.PeriodEnd.Format("2006-01-02"))
	require.Len(t, stmt.Rows, 5)

	first := stmt.Rows[0]
	assert.Equal(t, "2025-08-22", first.Date.Format("2006-01-02"))
	assert.Equal(t, "Autogiro SATS", first.Description)
	assert.Equal(t, "-549.00", first.Amount.StringFixed(2))
	require.True(t, first.Balance.Valid)
	assert.Equal(t, "11875.50", first.Balance.Decimal.StringFixed(2))

	salary := stmt.Rows[3]
	assert.Equal(t, "Lön Augusti", salary.Description)
	assert.True(t, salary.Amount.IsPositive())
	assert.Equal(t, "32000.00", salary.Amount.StringFixed(2))

	// The "Summa" footer row is skipped and reported, not emitted.
	require.Len(t, skipped, 1)
	assert.Equal(t, 10, skipped[0].Line)
	assert.Equal(t, "date", skipped[0].Cell)
	assert.Contains(t, skipped[0].Error(), "Summa")
}

func TestSkandia_ParseSkipsMalformedAmount(t *testing.T) {
	grid := [][]string{
		{"Bokf. datum", "Beskrivning", "Belopp", "Saldo"},
		{"2025-08-25", "ok row", "-100,00", "900,00"},
		{"2025-08-26", "broken row", "abc", "900,00"},
	}
	s := &Skandia{}
	stmt, skipped, err := s.Parse(grid)
	require.NoError(t, err)

	require.Len(t, stmt.Rows, 1)
	require.Len(t, skipped, 1)
	assert.Equal(t, "amount", skipped[0].Cell)
	assert.Equal(t, "abc", skipped[0].Value)
	assert.Equal(t, 3, skipped[0].Line)
}

func TestSkandia_ParseSkipsZeroAmounts(t *testing.T) {
	grid := [][]string{
		{"Bokf. datum", "Beskrivning", "Belopp", "Saldo"},
		{"2025-08-25", "zero row", "0,00", "900,00"},
	}
	s := &Skandia{}
	stmt, skipped, err := s.Parse(grid)
	require.NoError(t, err)
	assert.Empty(t, stmt.Rows)
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Reason, "zero")
}

func TestSkandia_ParseWithoutBalanceColumn(t *testing.T) {
	grid := [][]string{
		{"Bokf. datum", "Beskrivning", "Belopp", "Saldo"},
		{"2025-08-25", "no saldo", "-100,00", ""},
	}
	s := &Skandia{}
	stmt, skipped, err := s.Parse(grid)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Len(t, stmt.Rows, 1)
	assert.False(t, stmt.Rows[0].Balance.Valid)
}

func TestSkandia_ParseWithoutHeader(t *testing.T) {
	s := &Skandia{}
	_, _, err := s.Parse([][]string{{"just", "noise"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bokf. datum")
}

func TestSkandia_SingleCellKontonummer(t *testing.T) {
	grid := [][]string{
		{"Kontonummer 9151-123.456-7"},
		{"Bokf. datum", "Beskrivning", "Belopp", "Saldo"},
	}
	s := &Skandia{}
	stmt, _, err := s.Parse(grid)
	require.NoError(t, err)
	assert.Equal(t, "9151-123.456-7", stmt.AccountNumber)
}

func TestStatement_DateFallsBackToLatestRow(t *testing.T) {
	grid := [][]string{
		{"Bokf. datum", "Beskrivning", "Belopp", "Saldo"},
		{"2025-08-25", "a", "-100,00", ""},
		{"2025-08-27", "b", "-100,00", ""},
	}
	s := &Skandia{}
	stmt, _, err := s.Parse(grid)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-27", stmt.Date().Format("2006-01-02"))
}

func TestParseDecimal(t *testing.T) {
	cases := map[string]string{
		"-549,00":        "-549",
		"1 234,56":       "1234.56",
		"12.345,67":      "12345.67",
		"-1 000,00":      "-1000",
		"100":            "100",
		"1234.56":        "1234.56",
		"32\u00a0000,00": "32000", // NBSP group separator
	}
	for input, want := range cases {
		got, err := parseDecimal(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got.String(), "input %q", input)
	}
}

func TestParseDecimal_RoundTrip(t *testing.T) {
	for _, canonical := range []string{"-549", "1234.56", "0.01", "-1000.5"} {
		got, err := parseDecimal(canonical)
		require.NoError(t, err)
		assert.Equal(t, canonical, got.String())
	}
}

func TestReadGrid_SniffsDelimiter(t *testing.T) {
	grid, err := ReadGrid(strings.NewReader("a;b;c\n1;2;3\n"), "utf-8")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, []string{"a", "b", "c"}, grid[0])

	grid, err = ReadGrid(strings.NewReader("a,b,c\n1,2,3\n"), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, grid[1])
}

func TestReadGrid_Latin1(t *testing.T) {
	// "Överföring" encoded as ISO-8859-1 bytes.
	raw := []byte{0xd6, 'v', 'e', 'r', 'f', 0xf6, 'r', 'i', 'n', 'g', ';', 'x', '\n'}
	grid, err := ReadGrid(strings.NewReader(string(raw)), "latin1")
	require.NoError(t, err)
	require.Len(t, grid, 1)
	assert.Equal(t, "Överföring", grid[0][0])
}

func TestReadGrid_UnknownEncoding(t *testing.T) {
	_, err := ReadGrid(strings.NewReader("a,b\n"), "ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ebcdic")
}

func TestRegistry_Detect(t *testing.T) {
	r := DefaultRegistry()
	grid := readFixture(t, "skandia_checking.csv")

	src, ok := r.Detect(grid)
	require.True(t, ok)
	assert.Equal(t, "skandia", src.Format())

	_, ok = r.Detect([][]string{{"not", "a", "statement"}})
	assert.False(t, ok)
}

func TestRegistry_Get(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("Skandia"))
	assert.Nil(t, r.Get("chase"))
}
