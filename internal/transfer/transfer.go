// Package transfer detects internal transfers and pairs their debit and
// credit legs into balanced entries.
package transfer

import (
	"strings"

	"github.com/skanbean-dev/skanbean/internal/config"
	"github.com/skanbean-dev/skanbean/internal/model"
	"github.com/skanbean-dev/skanbean/internal/resolver"
)

// Candidate is a transaction flagged as a probable internal transfer.
type Candidate struct {
	Index       int    // position in the run's transaction slice
	Destination string // resolved destination hint, empty if none parsed
}

// Pair joins an outgoing and an incoming candidate into one transfer.
type Pair struct {
	Out   int // index of the outgoing (negative) transaction
	In    int // index of the incoming (positive) transaction
	Group int
}

// Classifier detects and pairs internal transfers. Built fresh per run;
// holds no state between runs.
type Classifier struct {
	keywords   []string // lowercased
	classify   string
	parseDest  bool
	windowDays int
	enabled    bool
	accounts   *resolver.Resolver
}

// NewClassifier builds a Classifier from the transfers configuration.
// The resolver supplies destination account lookups for parsed hints.
func NewClassifier(cfg config.TransfersConfig, accounts *resolver.Resolver) *Classifier {
	c := &Classifier{
		classify:   cfg.ClassifyAccount,
		parseDest:  cfg.ParseDestinationInDescription,
		windowDays: cfg.PairingWindowDays,
		enabled:    cfg.Enabled,
		accounts:   accounts,
	}
	for _, kw := range cfg.Keywords {
		c.keywords = append(c.keywords, strings.ToLower(kw))
	}
	return c
}

// ClassifyAccount returns the catch-all account for unpaired legs.
func (c *Classifier) ClassifyAccount() string { return c.classify }

// IsTransfer reports whether a description contains any transfer keyword.
func (c *Classifier) IsTransfer(description string) bool {
	if !c.enabled || description == "" {
		return false
	}
	desc := strings.ToLower(description)
	for _, kw := range c.keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// Candidate flags a transaction as a transfer candidate, extracting a
// destination hint from the description when configured. A missing hint
// does not disqualify the candidate.
func (c *Classifier) Candidate(index int, txn model.Transaction) (Candidate, bool) {
	if !c.IsTransfer(txn.Description) {
		return Candidate{}, false
	}
	cand := Candidate{Index: index}
	if c.parseDest {
		cand.Destination = c.destinationHint(txn.Description)
	}
	return cand, true
}

// destinationHint maps digits embedded in the description to a configured
// account: exact digits-only match first, then sliding windows of length
// 12 down to 8 to catch formatted numbers like "XXXX XXX XXX X".
func (c *Classifier) destinationHint(description string) string {
	digits := digitsOnly(description)
	if len(digits) < 8 {
		return ""
	}
	if account, ok := c.accounts.LookupDigits(digits); ok {
		return account
	}
	for length := 12; length >= 8; length-- {
		for i := 0; i+length <= len(digits); i++ {
			if account, ok := c.accounts.LookupDigits(digits[i : i+length]); ok {
				return account
			}
		}
	}
	return ""
}

// PairLegs matches outgoing candidates with incoming ones across the
// run's transactions. A leg pairs with the first unpaired opposite leg of
// equal absolute amount dated within the pairing window; each leg pairs
// at most once. The FIFO tie-break is a heuristic: with several same-day
// same-amount candidates the pairing is deterministic but not guaranteed
// correct, since the export carries no transfer reference ids.
func (c *Classifier) PairLegs(txns []model.Transaction, candidates []Candidate) []Pair {
	paired := make(map[int]bool, len(candidates))
	var pairs []Pair
	group := 0

	for _, out := range candidates {
		if paired[out.Index] || !txns[out.Index].Outgoing() {
			continue
		}
		for _, in := range candidates {
			if paired[in.Index] || txns[in.Index].Outgoing() {
				continue
			}
			if !c.legsMatch(txns[out.Index], txns[in.Index]) {
				continue
			}
			group++
			pairs = append(pairs, Pair{Out: out.Index, In: in.Index, Group: group})
			paired[out.Index] = true
			paired[in.Index] = true
			break
		}
	}
	return pairs
}

func (c *Classifier) legsMatch(out, in model.Transaction) bool {
	if out.Account == in.Account {
		return false
	}
	if !out.Amount.Neg().Equal(in.Amount) {
		return false
	}
	days := in.Date.Sub(out.Date).Hours() / 24
	if days < 0 {
		days = -days
	}
	return int(days) <= c.windowDays
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
