package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		letter string
		want   int
		ok     bool
	}{
		{"A", 0, true},
		{"B", 1, true},
		{"Z", 25, true},
		{"AA", 26, true},
		{"AB", 27, true},
		{"az", 51, true},
		{"", 0, false},
		{"A1", 0, false},
		{"Ω", 0, false},
		{"A B", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.letter, func(t *testing.T) {
			got, ok := ColumnIndex(tt.letter)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestColumnLetterRoundTrip(t *testing.T) {
	for i := 0; i < 26*27; i++ {
		letter := ColumnLetter(i)
		got, ok := ColumnIndex(letter)
		require.True(t, ok, "letter %q", letter)
		require.Equal(t, i, got, "letter %q", letter)
	}

	assert.Equal(t, "A", ColumnLetter(0))
	assert.Equal(t, "Z", ColumnLetter(25))
	assert.Equal(t, "AA", ColumnLetter(26))
	assert.Equal(t, "AB", ColumnLetter(27))
}

func TestNewTable(t *testing.T) {
	raw := [][]any{
		{"Dealer_Code", "mobile_actual", "plan_vs_target"},
		{"FKM01", "120", "0.87"},
		{"FKM02", nil, "1.10"},
	}

	table := NewTable(raw, 0)

	require.Len(t, table.Rows(), 2)
	assert.Equal(t, 3, table.ColumnCount())
	assert.Equal(t, "Dealer_Code", table.Header(0))
	assert.Equal(t, "", table.Header(5))

	first := table.Rows()[0]
	assert.Equal(t, 1, first.Number())
	assert.Equal(t, "FKM01", first.Cell(0))
	assert.Nil(t, first.Cell(9))

	second := table.Rows()[1]
	assert.Nil(t, second.Cell(1))
}

func TestNewTableHeaderOffset(t *testing.T) {
	raw := [][]any{
		{"Report", nil},
		{"Code", "Value"},
		{"X1", "5"},
	}

	table := NewTable(raw, 1)
	require.Len(t, table.Rows(), 1)
	assert.Equal(t, "Code", table.Header(0))
	assert.Equal(t, "X1", table.Rows()[0].Cell(0))
}

func TestNewTableOutOfRangeOffset(t *testing.T) {
	table := NewTable([][]any{{"a"}}, 5)
	assert.Empty(t, table.Rows())
	assert.Equal(t, 0, table.ColumnCount())
}
