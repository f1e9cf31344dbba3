package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Granularity controls how often balance assertions are emitted.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityFileEnd Granularity = "file_end"
)

// defaultTransferKeywords cover the spellings Skandia uses for internal
// transfers, with and without Swedish diacritics.
var defaultTransferKeywords = []string{"överföring", "överforing", "overforing"}

// Config represents the top-level skanbean.yaml configuration.
type Config struct {
	DefaultAccount       string            `yaml:"default_account"`
	Currency             string            `yaml:"currency"`
	Encoding             string            `yaml:"encoding,omitempty"` // utf-8 (default) or latin1
	PayeeFromDescription *bool             `yaml:"payee_from_description,omitempty"`
	Accounts             map[string]string `yaml:"accounts,omitempty"` // kontonummer -> ledger account
	Balances             BalancesConfig    `yaml:"balances"`
	Rules                RulesConfig       `yaml:"rules"`
	Transfers            TransfersConfig   `yaml:"transfers"`
}

// BalancesConfig controls balance assertion emission.
type BalancesConfig struct {
	Enabled     bool        `yaml:"enabled"`
	Granularity Granularity `yaml:"granularity"`
}

// RulesConfig controls keyword counter-account classification.
type RulesConfig struct {
	Enabled        bool     `yaml:"enabled"`
	DefaultCounter string   `yaml:"default_counter"`
	Map            RuleList `yaml:"map"`
}

// TransfersConfig controls internal transfer detection and pairing.
type TransfersConfig struct {
	Enabled                       bool     `yaml:"enabled"`
	ClassifyAccount               string   `yaml:"classify_account"`
	ParseDestinationInDescription bool     `yaml:"parse_destination_in_description"`
	Keywords                      []string `yaml:"keywords"`
	PairingWindowDays             int      `yaml:"pairing_window_days"`
}

// Rule maps a description keyword to a counter account.
type Rule struct {
	Keyword string
	Account string
}

// RuleList is an ordered set of rules. Order is priority: first match wins.
type RuleList []Rule

// UnmarshalYAML decodes a YAML mapping while preserving document order,
// which encoding into a Go map would destroy.
func (r *RuleList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("rules.map must be a mapping, got %s", nodeKind(value.Kind))
	}
	rules := make(RuleList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		val := value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("rules.map[%q]: account must be a string", key.Value)
		}
		rules = append(rules, Rule{Keyword: key.Value, Account: val.Value})
	}
	*r = rules
	return nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "node"
	}
}

// Error describes an invalid or missing configuration value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Load reads and validates a skanbean.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with no mappings and all features off,
// suitable for config-less runs driven by CLI flags.
func Default(defaultAccount, currency string) *Config {
	cfg := &Config{
		DefaultAccount: defaultAccount,
		Currency:       currency,
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Currency == "" {
		c.Currency = "SEK"
	}
	if c.Encoding == "" {
		c.Encoding = "utf-8"
	}
	if c.Balances.Granularity == "" {
		c.Balances.Granularity = GranularityDaily
	}
	if c.Transfers.ClassifyAccount == "" {
		c.Transfers.ClassifyAccount = "Expenses:Transfers:Internal"
	}
	if len(c.Transfers.Keywords) == 0 {
		c.Transfers.Keywords = append([]string(nil), defaultTransferKeywords...)
	}
}

// Validate checks enum values and field combinations. Returns the first
// problem found as an *Error.
func (c *Config) Validate() error {
	switch c.Balances.Granularity {
	case GranularityDaily, GranularityFileEnd:
	default:
		return &Error{
			Field:  "balances.granularity",
			Reason: fmt.Sprintf("must be %q or %q, got %q", GranularityDaily, GranularityFileEnd, c.Balances.Granularity),
		}
	}
	switch strings.ToLower(c.Encoding) {
	case "utf-8", "utf8", "latin1", "iso-8859-1", "windows-1252":
	default:
		return &Error{Field: "encoding", Reason: fmt.Sprintf("unsupported encoding %q", c.Encoding)}
	}
	if c.Transfers.PairingWindowDays < 0 {
		return &Error{Field: "transfers.pairing_window_days", Reason: "must not be negative"}
	}
	for i, rule := range c.Rules.Map {
		if strings.TrimSpace(rule.Keyword) == "" {
			return &Error{Field: fmt.Sprintf("rules.map[%d]", i), Reason: "empty keyword"}
		}
		if strings.TrimSpace(rule.Account) == "" {
			return &Error{Field: fmt.Sprintf("rules.map[%q]", rule.Keyword), Reason: "empty account"}
		}
	}
	for raw, account := range c.Accounts {
		if strings.TrimSpace(account) == "" {
			return &Error{Field: fmt.Sprintf("accounts[%q]", raw), Reason: "empty account"}
		}
	}
	return nil
}

// InferPayee reports whether descriptions go into the payee field
// (the default) rather than the narration.
func (c *Config) InferPayee() bool {
	if c.PayeeFromDescription == nil {
		return true
	}
	return *c.PayeeFromDescription
}
