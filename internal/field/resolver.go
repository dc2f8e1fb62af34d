package field

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nkaramanos/lettergen/internal/dataset"
)

// Resolver maps field specs to column indices of one table. Resolution is
// memoized per spec name; a spec resolves to at most one column for the
// lifetime of the table.
type Resolver struct {
	table *dataset.Table
	memo  map[string]hit
}

type hit struct {
	col int
	ok  bool
}

// NewResolver creates a resolver bound to a table.
func NewResolver(table *dataset.Table) *Resolver {
	return &Resolver{
		table: table,
		memo:  make(map[string]hit),
	}
}

// Resolve finds the column a spec addresses. It never errors: an invalid
// letter, unknown alias, or unmatched pattern all report unresolved, and
// downstream treats unresolved as "empty value for every row".
func (r *Resolver) Resolve(spec Spec) (int, bool) {
	if h, ok := r.memo[spec.Name]; ok {
		return h.col, h.ok
	}
	col, ok := r.resolve(spec)
	r.memo[spec.Name] = hit{col: col, ok: ok}
	return col, ok
}

// Value returns the raw cell addressed by a spec in the given row, or nil
// when the spec is unresolved.
func (r *Resolver) Value(row dataset.Row, spec Spec) any {
	col, ok := r.Resolve(spec)
	if !ok {
		return nil
	}
	return row.Cell(col)
}

func (r *Resolver) resolve(spec Spec) (int, bool) {
	// Tier 0: explicit column letter.
	if spec.Letter != "" {
		col, ok := dataset.ColumnIndex(strings.TrimSpace(spec.Letter))
		if ok && col < r.table.ColumnCount() {
			return col, true
		}
		// An invalid or out-of-range letter falls through to
		// unresolved, never to the alias tiers: the letter was an
		// explicit choice.
		return 0, false
	}

	headers := r.table.Headers()

	// Tier 1: alias exact match after normalization.
	if len(spec.Aliases) > 0 {
		normalized := make([]string, len(headers))
		for i, h := range headers {
			normalized[i] = NormalizeHeader(h)
		}
		for _, alias := range spec.Aliases {
			want := NormalizeHeader(alias)
			if want == "" {
				continue
			}
			for col, got := range normalized {
				if got == want {
					return col, true
				}
			}
		}

		// Tier 2: alias as case-insensitive substring of the raw header.
		for _, alias := range spec.Aliases {
			needle := strings.ToLower(strings.TrimSpace(alias))
			if needle == "" {
				continue
			}
			for col, h := range headers {
				if strings.Contains(strings.ToLower(h), needle) {
					return col, true
				}
			}
		}
	}

	// Tier 3: pattern match against raw header text.
	for _, pattern := range spec.Patterns {
		re, err := regexp.Compile("(?im)" + pattern)
		if err != nil {
			continue
		}
		for col, h := range headers {
			if re.MatchString(h) {
				return col, true
			}
		}
	}

	return 0, false
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader canonicalizes header text for alias comparison:
// diacritics stripped, lower-cased, and every run of whitespace, "-",
// "_" and "." removed, so "Shop_Code", "Shop Code" and "ShopCode" all
// compare equal. Idempotent.
func NormalizeHeader(s string) string {
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r), r == '-', r == '_', r == '.':
			// separator, dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
