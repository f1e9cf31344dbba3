// Package rules selects counter accounts by keyword-matching transaction
// descriptions against an ordered rule list.
package rules

import (
	"strings"

	"github.com/skanbean-dev/skanbean/internal/config"
)

// Unclassified is the sentinel counter account used when the engine is
// enabled but no rule matches and no default counter is configured.
const Unclassified = "Equity:Unclassified"

// Result is the outcome of classifying one description.
type Result struct {
	Account string
	Keyword string // the matching rule's keyword, empty for defaults
	Matched bool
}

// Engine applies ordered keyword rules, first match wins.
type Engine struct {
	rules          []rule
	defaultCounter string
	enabled        bool
}

type rule struct {
	keyword string // lowercased for case-insensitive containment
	account string
}

// NewEngine builds an Engine from the rules configuration. Rule order is
// priority order and is preserved exactly as configured.
func NewEngine(cfg config.RulesConfig) *Engine {
	e := &Engine{
		defaultCounter: cfg.DefaultCounter,
		enabled:        cfg.Enabled,
	}
	for _, r := range cfg.Map {
		e.rules = append(e.rules, rule{
			keyword: strings.ToLower(r.Keyword),
			account: r.Account,
		})
	}
	return e
}

// Classify returns the counter account for a description. Matching is
// plain case-insensitive substring containment, no patterns, so rule
// authors can reason about matches trivially.
func (e *Engine) Classify(description string) Result {
	if !e.enabled {
		if e.defaultCounter == "" {
			return Result{Account: Unclassified}
		}
		return Result{Account: e.defaultCounter}
	}
	desc := strings.ToLower(description)
	for _, r := range e.rules {
		if strings.Contains(desc, r.keyword) {
			return Result{Account: r.account, Keyword: r.keyword, Matched: true}
		}
	}
	if e.defaultCounter != "" {
		return Result{Account: e.defaultCounter}
	}
	return Result{Account: Unclassified}
}
