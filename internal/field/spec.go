package field

// Kind selects how a raw cell value is rendered into its display string.
type Kind string

const (
	// KindPlain renders the value in its natural string form.
	KindPlain Kind = "plain"
	// KindPercent renders the value through the percent-scale heuristic.
	KindPercent Kind = "percent"
)

// Spec binds a logical field name to exactly one column addressing scheme.
// Resolution order is fixed: explicit column letter first, then header
// aliases, then header patterns. A spec that resolves nowhere yields an
// empty value for every row.
type Spec struct {
	// Name is the placeholder identifier the field substitutes into.
	Name string
	// Letter is an explicit spreadsheet column letter ("A", "AB").
	// Takes precedence over aliases and patterns when non-empty.
	Letter string
	// Aliases are header names matched exactly after normalization,
	// then as case-insensitive substrings, in order.
	Aliases []string
	// Patterns are regular expressions tried against raw header text,
	// case-insensitive, in order.
	Patterns []string
	// Kind selects display formatting; defaults to plain.
	Kind Kind
}

// DisplayKind returns the effective kind, defaulting to plain.
func (s Spec) DisplayKind() Kind {
	if s.Kind == KindPercent {
		return KindPercent
	}
	return KindPlain
}
