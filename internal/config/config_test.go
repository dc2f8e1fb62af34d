package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkaramanos/lettergen/internal/category"
	"github.com/nkaramanos/lettergen/internal/field"
)

const sampleYAML = `
dataset:
  sheet: Sheet1
  header_row: 0

templates:
  dir: templates
  files:
    BEX: bex.docx
    Non-BEX: non_bex.docx
  default: default.docx

identifier:
  name: store
  aliases: ["Dealer_Code", "Shop Code"]

fields:
  - name: mobile_actual
    aliases: ["mobile_actual"]
  - name: plan_vs_target
    aliases: ["plan_vs_target"]
    kind: percent
  - name: region
    letter: C

category:
  mode: flag_column
  flag:
    aliases: ["BEX"]
  flagged: BEX
  default: Non-BEX

render:
  limit: 5
  output: out.zip

logger:
  level: debug
  format: console
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", cfg.Dataset.Sheet)
	assert.Equal(t, 0, cfg.Dataset.HeaderRow)
	assert.Equal(t, "bex.docx", cfg.Templates.Files["BEX"])
	assert.Equal(t, "default.docx", cfg.Templates.Default)
	assert.Equal(t, 5, cfg.Render.Limit)
	assert.Equal(t, "out.zip", cfg.Render.Output)
	assert.Equal(t, "debug", cfg.Logger.Level)

	// Defaults survive partial configuration.
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	specs := cfg.FieldSpecs()
	require.Len(t, specs, 3)
	assert.Equal(t, field.KindPercent, specs[1].Kind)
	assert.Equal(t, "C", specs[2].Letter)

	rules := cfg.Rules()
	assert.Equal(t, category.ModeFlagColumn, rules.Mode)
	assert.Equal(t, "BEX", rules.Flagged)
	assert.Equal(t, "Non-BEX", rules.Default)
	assert.Equal(t, []string{"BEX"}, rules.FlagField.Aliases)
	assert.Nil(t, rules.OverrideField)

	id := cfg.Identifier.Spec()
	assert.Equal(t, "store", id.Name)
	assert.Equal(t, []string{"Dealer_Code", "Shop Code"}, id.Aliases)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Templates:  TemplateConfig{Default: "default.docx"},
			Identifier: FieldConfig{Name: "store", Aliases: []string{"Code"}},
			Category:   CategoryConfig{Mode: "none", Default: "Standard"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"identifier unaddressable", func(c *Config) { c.Identifier = FieldConfig{Name: "store"} }, "identifier"},
		{"unnamed field", func(c *Config) { c.Fields = []FieldConfig{{Aliases: []string{"x"}}} }, "name is required"},
		{"duplicate field", func(c *Config) {
			c.Fields = []FieldConfig{{Name: "a", Letter: "A"}, {Name: "a", Letter: "B"}}
		}, "duplicate"},
		{"bad kind", func(c *Config) { c.Fields = []FieldConfig{{Name: "a", Letter: "A", Kind: "money"}} }, "kind"},
		{"bad pattern", func(c *Config) { c.Fields = []FieldConfig{{Name: "a", Patterns: []string{"("}}} }, "invalid pattern"},
		{"bad mode", func(c *Config) { c.Category.Mode = "magic" }, "category.mode"},
		{"no default category", func(c *Config) { c.Category.Default = "" }, "category.default"},
		{"flag mode without flagged", func(c *Config) { c.Category.Mode = "flag_column"; c.Category.Flag.Letter = "D" }, "category.flagged"},
		{"flag mode without flag column", func(c *Config) { c.Category.Mode = "flag_column"; c.Category.Flagged = "BEX" }, "category.flag"},
		{"no templates", func(c *Config) { c.Templates = TemplateConfig{} }, "templates"},
		{"negative limit", func(c *Config) { c.Render.Limit = -1 }, "render.limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRulesOverrideField(t *testing.T) {
	cfg := Config{
		Category: CategoryConfig{
			Mode:     "fixed_list",
			Override: FieldConfig{Aliases: []string{"Category"}},
			Members:  []string{"FKM01"},
			Flagged:  "BEX",
			Default:  "Non-BEX",
		},
	}
	rules := cfg.Rules()
	require.NotNil(t, rules.OverrideField)
	assert.Equal(t, "_category_override", rules.OverrideField.Name)
	assert.Equal(t, category.ModeFixedList, rules.Mode)
}
