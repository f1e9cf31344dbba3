// Package resolver maps raw bank account numbers to ledger accounts.
package resolver

import (
	"fmt"
	"strings"
)

// UnmappedAccountError is fatal for the whole file: a wrong source account
// would corrupt the ledger silently, so the run aborts instead.
type UnmappedAccountError struct {
	AccountNumber string
}

func (e *UnmappedAccountError) Error() string {
	return fmt.Sprintf("unmapped account number %q: add it under accounts in the config or set default_account", e.AccountNumber)
}

// Resolver resolves account numbers against a configured mapping.
type Resolver struct {
	accounts map[string]string
	fallback string
}

// New builds a Resolver. Every configured key is also indexed in
// digits-only form so "XXXX-XXX.XXX-X" and "XXXXXXXXXXXX" both resolve.
func New(accounts map[string]string, defaultAccount string) *Resolver {
	indexed := make(map[string]string, len(accounts)*2)
	for raw, ledger := range accounts {
		indexed[raw] = ledger
		if digits := digitsOnly(raw); digits != "" {
			indexed[digits] = ledger
		}
	}
	return &Resolver{accounts: indexed, fallback: defaultAccount}
}

// Resolve maps a raw account number to its ledger account, falling back
// to the default account. Returns *UnmappedAccountError when neither
// matches.
func (r *Resolver) Resolve(raw string) (string, error) {
	if account, ok := r.Lookup(raw); ok {
		return account, nil
	}
	if r.fallback != "" {
		return r.fallback, nil
	}
	return "", &UnmappedAccountError{AccountNumber: raw}
}

// Lookup maps a raw account number without the default fallback. Used for
// transfer destination hints, where a miss must stay a miss.
func (r *Resolver) Lookup(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if account, ok := r.accounts[raw]; ok {
		return account, true
	}
	if account, ok := r.accounts[digitsOnly(raw)]; ok {
		return account, true
	}
	if account, ok := r.accounts[strings.ReplaceAll(raw, " ", "")]; ok {
		return account, true
	}
	return "", false
}

// LookupDigits maps an already digits-only key. Sliding-window hint
// extraction probes with candidate substrings.
func (r *Resolver) LookupDigits(digits string) (string, bool) {
	account, ok := r.accounts[digits]
	return account, ok
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
