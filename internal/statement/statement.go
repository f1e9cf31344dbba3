// Package statement reads bank statement exports into raw row grids and
// parses them into normalized statements via format-specific sources.
package statement

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Row is one normalized data row of a statement.
type Row struct {
	Line        int // 1-based line in the source file
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Balance     decimal.NullDecimal
}

// Statement is the parsed content of one export file.
type Statement struct {
	Format        string
	AccountNumber string    // raw account identifier from the file metadata
	PeriodEnd     time.Time // zero if the file carries no period metadata
	Rows          []Row
}

// Date returns the statement's reference date: the period end if present,
// otherwise the latest transaction date. Zero if neither exists.
func (s *Statement) Date() time.Time {
	if !s.PeriodEnd.IsZero() {
		return s.PeriodEnd
	}
	var latest time.Time
	for _, r := range s.Rows {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest
}

// MalformedRowError describes a data row that could not be parsed.
// It is recoverable: the row is reported and skipped, not emitted.
type MalformedRowError struct {
	Line   int
	Cell   string // column name, e.g. "date"
	Value  string // offending cell content
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: %s %q: %s", e.Line, e.Cell, clip(e.Value, 40), e.Reason)
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Source parses one bank export format.
type Source interface {
	// Format returns the source's name, e.g. "skandia".
	Format() string
	// Identify reports whether the grid looks like this source's format.
	Identify(grid [][]string) bool
	// Parse converts the grid into a Statement. Unparsable data rows are
	// returned as skipped diagnostics, not errors.
	Parse(grid [][]string) (*Statement, []*MalformedRowError, error)
}

// Registry holds registered sources in registration order.
type Registry struct {
	byFormat map[string]Source
	order    []Source
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{byFormat: make(map[string]Source)}
}

// Register adds a source. Panics on duplicate format.
func (r *Registry) Register(s Source) {
	key := strings.ToLower(s.Format())
	if _, ok := r.byFormat[key]; ok {
		panic("duplicate source format: " + key)
	}
	r.byFormat[key] = s
	r.order = append(r.order, s)
}

// Get returns the source for format, or nil.
func (r *Registry) Get(format string) Source {
	return r.byFormat[strings.ToLower(format)]
}

// Detect returns the first registered source that identifies the grid.
func (r *Registry) Detect(grid [][]string) (Source, bool) {
	for _, s := range r.order {
		if s.Identify(grid) {
			return s, true
		}
	}
	return nil, false
}

// DefaultRegistry returns a registry with all built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&Skandia{})
	return r
}

// ReadGrid reads a delimited export into a cell grid. The encoding name
// selects the byte decoder; Skandia's older exports are Windows-1252.
// The delimiter is sniffed from the first line (';' beats ',').
func ReadGrid(r io.Reader, encoding string) ([][]string, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "windows-1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement grid: %w", err)
	}
	return grid, nil
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.ContainsRune(line, ';') {
		return ';'
	}
	return ','
}

// parseDecimal parses a Swedish-formatted number without precision loss.
// NBSP and plain spaces group digits; with a decimal comma present, '.' is
// a thousands separator.
func parseDecimal(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("\u00a0", "", "\u202f", "", " ", "").Replace(strings.TrimSpace(s))
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	return decimal.NewFromString(cleaned)
}

const dateFormat = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateFormat, strings.TrimSpace(s))
}
