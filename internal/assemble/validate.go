package assemble

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError describes a single invariant violation in the output
// stream. Assembly builds entries balanced by construction, so any
// violation is a defect, not an input condition.
type ValidationError struct {
	Invariant   int
	Index       int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [item %d]: %s", e.Invariant, e.Index, e.Description)
}

// Validate enforces the output invariants on an assembled stream.
func Validate(items []Item) []ValidationError {
	var errs []ValidationError
	for i, item := range items {
		if item.Entry == nil {
			if item.Assertion == nil {
				errs = append(errs, ValidationError{
					Invariant: 1, Index: i, Description: "item holds neither entry nor assertion",
				})
			}
			continue
		}
		entry := item.Entry

		// Invariant 2: at least two postings.
		if len(entry.Postings) < 2 {
			errs = append(errs, ValidationError{
				Invariant: 2, Index: i,
				Description: fmt.Sprintf("entry %q has %d postings", entry.Payee, len(entry.Postings)),
			})
		}

		// Invariant 3: postings sum to zero.
		if sum := entry.Sum(); !sum.Equal(decimal.Zero) {
			errs = append(errs, ValidationError{
				Invariant: 3, Index: i,
				Description: fmt.Sprintf("entry %q postings sum to %s, want 0", entry.Payee, sum),
			})
		}

		// Invariant 4: no zero-amount or account-less postings.
		for _, p := range entry.Postings {
			if p.Amount.IsZero() {
				errs = append(errs, ValidationError{
					Invariant: 4, Index: i,
					Description: fmt.Sprintf("zero-amount posting on %s", p.Account),
				})
			}
			if p.Account == "" {
				errs = append(errs, ValidationError{
					Invariant: 4, Index: i,
					Description: "posting without an account",
				})
			}
		}

		// Invariant 5: dated.
		if entry.Date.IsZero() {
			errs = append(errs, ValidationError{
				Invariant: 5, Index: i,
				Description: fmt.Sprintf("entry %q has no date", entry.Payee),
			})
		}
	}
	return errs
}
