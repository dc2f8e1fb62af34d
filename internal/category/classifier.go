// Package category routes each record to the named template variant it
// belongs to ("BEX" vs "Non-BEX" style splits).
package category

import (
	"strings"

	"github.com/nkaramanos/lettergen/internal/dataset"
	"github.com/nkaramanos/lettergen/internal/field"
)

// Mode selects which single signal, beyond the always-checked per-row
// override, decides a record's category.
type Mode string

const (
	// ModeNone always yields the default category.
	ModeNone Mode = "none"
	// ModeFlagColumn reads a boolean-like column per row.
	ModeFlagColumn Mode = "flag_column"
	// ModeFixedList tests the record identifier against a fixed set.
	ModeFixedList Mode = "fixed_list"
)

// Rules configures classification. Precedence is fixed: a per-row
// explicit override always wins; otherwise the configured mode decides;
// otherwise the default category applies.
type Rules struct {
	Mode Mode
	// OverrideField, when set, names a column carrying an explicit
	// per-row category. Checked first regardless of mode.
	OverrideField *field.Spec
	// FlagField is the boolean-like column for ModeFlagColumn.
	FlagField field.Spec
	// Members are the record identifiers of the flagged set for
	// ModeFixedList; compared upper-cased and trimmed.
	Members []string
	// Flagged is the category for truthy flags / list members.
	Flagged string
	// Default is the category for everything else.
	Default string
}

// Classifier is a pure per-row decision, no state beyond its rules.
type Classifier struct {
	rules   Rules
	members map[string]struct{}
}

// NewClassifier builds a classifier from rules.
func NewClassifier(rules Rules) *Classifier {
	members := make(map[string]struct{}, len(rules.Members))
	for _, m := range rules.Members {
		members[canonicalID(m)] = struct{}{}
	}
	return &Classifier{rules: rules, members: members}
}

// Classify decides the category for one row. identifier is the row's
// already-resolved record code, used by the fixed-list mode.
func (c *Classifier) Classify(resolver *field.Resolver, row dataset.Row, identifier string) string {
	if c.rules.OverrideField != nil {
		raw := resolver.Value(row, *c.rules.OverrideField)
		if override := strings.TrimSpace(field.ToDisplay(raw, field.KindPlain)); override != "" {
			return override
		}
	}

	switch c.rules.Mode {
	case ModeFlagColumn:
		raw := resolver.Value(row, c.rules.FlagField)
		if isTruthy(field.ToDisplay(raw, field.KindPlain)) {
			return c.rules.Flagged
		}
		return c.rules.Default
	case ModeFixedList:
		if _, ok := c.members[canonicalID(identifier)]; ok {
			return c.rules.Flagged
		}
		return c.rules.Default
	}
	return c.rules.Default
}

// Default returns the configured default category.
func (c *Classifier) Default() string { return c.rules.Default }

// truthy vocabulary for flag columns; "ναι" is the Greek affirmative the
// source sheets use.
var truthy = map[string]struct{}{
	"yes":  {},
	"y":    {},
	"1":    {},
	"true": {},
	"ναι":  {},
}

func isTruthy(s string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func canonicalID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
