package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Skandia parses Skandia "Kontoutdrag" exports. The grid starts with
// metadata rows (Kontonummer, Period), then a Swedish header row, then
// one data row per transaction.
type Skandia struct{}

// swedishHeaders is the column header row that marks the start of data.
var swedishHeaders = []string{"Bokf. datum", "Beskrivning", "Belopp", "Saldo"}

const (
	skandiaColDate    = 0
	skandiaColDesc    = 1
	skandiaColAmount  = 2
	skandiaColBalance = 3

	// Metadata lives in the top-left corner of the sheet.
	metadataMaxRows = 8
	metadataMaxCols = 8
)

// Format returns the source name.
func (s *Skandia) Format() string { return "skandia" }

// Identify reports whether the grid contains the Skandia header row.
func (s *Skandia) Identify(grid [][]string) bool {
	return findHeaderRow(grid) >= 0
}

// Parse converts a Skandia grid into a Statement. Rows with unparsable
// dates or amounts, and zero-amount rows, are skipped and reported.
func (s *Skandia) Parse(grid [][]string) (*Statement, []*MalformedRowError, error) {
	headerIdx := findHeaderRow(grid)
	if headerIdx < 0 {
		return nil, nil, fmt.Errorf("no %q header row found", swedishHeaders[0])
	}

	stmt := &Statement{
		Format:        s.Format(),
		AccountNumber: extractAccountNumber(grid[:headerIdx]),
		PeriodEnd:     extractPeriodEnd(grid[:headerIdx]),
	}

	var skipped []*MalformedRowError
	for i, cells := range grid[headerIdx+1:] {
		line := headerIdx + i + 2 // 1-based source line
		if blankRow(cells) {
			continue
		}
		row, serr := parseSkandiaRow(line, cells)
		if serr != nil {
			skipped = append(skipped, serr)
			continue
		}
		stmt.Rows = append(stmt.Rows, row)
	}
	return stmt, skipped, nil
}

func parseSkandiaRow(line int, cells []string) (Row, *MalformedRowError) {
	date, err := parseDate(cell(cells, skandiaColDate))
	if err != nil {
		return Row{}, &MalformedRowError{
			Line: line, Cell: "date", Value: cell(cells, skandiaColDate),
			Reason: "not a calendar date",
		}
	}

	rawAmount := cell(cells, skandiaColAmount)
	amount, err := parseDecimal(rawAmount)
	if err != nil {
		return Row{}, &MalformedRowError{
			Line: line, Cell: "amount", Value: rawAmount,
			Reason: "not a number",
		}
	}
	if amount.IsZero() {
		return Row{}, &MalformedRowError{
			Line: line, Cell: "amount", Value: rawAmount,
			Reason: "zero amount",
		}
	}

	row := Row{
		Line:        line,
		Date:        date,
		Description: strings.TrimSpace(cell(cells, skandiaColDesc)),
		Amount:      amount,
	}

	// Saldo is best effort: an unparsable balance never fails the row.
	if raw := cell(cells, skandiaColBalance); strings.TrimSpace(raw) != "" {
		if bal, err := parseDecimal(raw); err == nil {
			row.Balance = decimal.NewNullDecimal(bal)
		}
	}
	return row, nil
}

func findHeaderRow(grid [][]string) int {
	for i, cells := range grid {
		if len(cells) < len(swedishHeaders) {
			continue
		}
		match := true
		for j, want := range swedishHeaders {
			if strings.TrimSpace(cells[j]) != want {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// extractAccountNumber finds the Kontonummer in the metadata rows: either
// a "Kontonummer" cell with the number in the next cell, or a single
// "Kontonummer XXXX-XXX.XXX-X" cell.
func extractAccountNumber(meta [][]string) string {
	rows := min(len(meta), metadataMaxRows)
	for r := 0; r < rows; r++ {
		cols := min(len(meta[r]), metadataMaxCols)
		for c := 0; c < cols; c++ {
			val := strings.TrimSpace(meta[r][c])
			if strings.EqualFold(val, "Kontonummer") {
				if next := strings.TrimSpace(cell(meta[r], c+1)); next != "" {
					return next
				}
			}
		}
	}
	for r := 0; r < rows; r++ {
		cols := min(len(meta[r]), metadataMaxCols)
		for c := 0; c < cols; c++ {
			val := strings.TrimSpace(meta[r][c])
			if strings.Contains(strings.ToLower(val), "kontonummer") {
				parts := strings.Fields(val)
				if len(parts) >= 2 {
					return parts[len(parts)-1]
				}
			}
		}
	}
	return ""
}

// extractPeriodEnd parses the end date out of a "Period" metadata row
// holding "YYYY-MM-DD - YYYY-MM-DD".
func extractPeriodEnd(meta [][]string) time.Time {
	rows := min(len(meta), metadataMaxRows)
	for r := 0; r < rows; r++ {
		for c, val := range meta[r] {
			val = strings.TrimSpace(val)
			span := ""
			if strings.EqualFold(val, "Period") {
				span = strings.TrimSpace(cell(meta[r], c+1))
			} else if strings.HasPrefix(strings.ToLower(val), "period ") {
				span = strings.TrimSpace(val[len("period "):])
			}
			if span == "" {
				continue
			}
			if _, after, found := strings.Cut(span, " - "); found {
				if d, err := parseDate(after); err == nil {
					return d
				}
			}
		}
	}
	return time.Time{}
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
