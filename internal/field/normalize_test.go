package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nkaramanos/lettergen/internal/dataset"
)

func TestToDisplayPercent(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"ratio", 0.85, "85%"},
		{"small fraction above one", 1.22, "122%"},
		{"already percent units", 122.0, "122%"},
		{"string ratio", "0.85", "85%"},
		{"comma decimal separator", "0,87", "87%"},
		{"preformatted passthrough", "87%", "87%"},
		{"preformatted with padding", "  87% ", "87%"},
		{"non-numeric unchanged", "abc", "abc"},
		{"nil", nil, ""},
		{"blank", "", ""},
		{"whitespace only", "   ", ""},
		{"nan", math.NaN(), ""},
		{"rounding", 0.856, "86%"},
		{"negative ratio", -0.25, "-25%"},
		{"integer", 120, "120%"},
		{"small integer treated as ratio", 5, "500%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDisplay(tt.raw, KindPercent))
		})
	}
}

func TestToDisplayPlain(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"integral float without decimal", 120.0, "120"},
		{"fractional float bounded", 3.14159, "3.14"},
		{"trailing zeros trimmed", 2.50, "2.5"},
		{"string untouched", "FKM01", "FKM01"},
		{"int", 42, "42"},
		{"int64", int64(7), "7"},
		{"nil", nil, ""},
		{"nan", math.NaN(), ""},
		{"bool via natural form", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDisplay(tt.raw, KindPlain))
		})
	}
}

func TestBuildMap(t *testing.T) {
	table := dataset.NewTable([][]any{
		{"Dealer_Code", "mobile_actual", "plan_vs_target"},
		{"FKM01", "120", "0.87"},
	}, 0)
	r := NewResolver(table)
	row := table.Rows()[0]

	specs := []Spec{
		{Name: "store", Aliases: []string{"Dealer_Code"}},
		{Name: "mobile_actual", Aliases: []string{"mobile_actual"}},
		{Name: "plan_vs_target", Aliases: []string{"plan_vs_target"}, Kind: KindPercent},
		{Name: "missing_metric", Aliases: []string{"nope"}},
	}

	m := BuildMap(r, row, specs, Map{"month_name": "August", "store": "overridden"})

	assert.Equal(t, "FKM01", m["store"], "configured field overrides seed")
	assert.Equal(t, "120", m["mobile_actual"])
	assert.Equal(t, "87%", m["plan_vs_target"])
	assert.Equal(t, "", m["missing_metric"], "unresolved field is empty, not absent")
	assert.Equal(t, "August", m["month_name"])
}
