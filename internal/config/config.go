package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nkaramanos/lettergen/internal/category"
	"github.com/nkaramanos/lettergen/internal/field"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig   `mapstructure:"server"`
	Dataset    DatasetConfig  `mapstructure:"dataset"`
	Templates  TemplateConfig `mapstructure:"templates"`
	Identifier FieldConfig    `mapstructure:"identifier"`
	Fields     []FieldConfig  `mapstructure:"fields"`
	Category   CategoryConfig `mapstructure:"category"`
	Render     RenderConfig   `mapstructure:"render"`
	Logger     LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds the letterd HTTP configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatasetConfig holds workbook loading options.
type DatasetConfig struct {
	Sheet     string `mapstructure:"sheet"`
	HeaderRow int    `mapstructure:"header_row"`
}

// TemplateConfig maps category names to template files.
type TemplateConfig struct {
	Dir string `mapstructure:"dir"`
	// Files maps category name to a .docx filename inside Dir.
	Files map[string]string `mapstructure:"files"`
	// Default is the fallback template filename for categories with no
	// entry of their own.
	Default string `mapstructure:"default"`
}

// FieldConfig declares one logical field binding.
type FieldConfig struct {
	Name     string   `mapstructure:"name"`
	Letter   string   `mapstructure:"letter"`
	Aliases  []string `mapstructure:"aliases"`
	Patterns []string `mapstructure:"patterns"`
	Kind     string   `mapstructure:"kind"`
}

// CategoryConfig declares the classification rules.
type CategoryConfig struct {
	Mode     string      `mapstructure:"mode"`
	Override FieldConfig `mapstructure:"override"`
	Flag     FieldConfig `mapstructure:"flag"`
	Members  []string    `mapstructure:"members"`
	Flagged  string      `mapstructure:"flagged"`
	Default  string      `mapstructure:"default"`
}

// RenderConfig holds batch options.
type RenderConfig struct {
	// Limit caps attempted rows; 0 renders everything.
	Limit int `mapstructure:"limit"`
	// Output is the default archive path for the CLI.
	Output string `mapstructure:"output"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LETTERGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("dataset.sheet", "")
	v.SetDefault("dataset.header_row", 0)

	v.SetDefault("templates.dir", "templates")

	v.SetDefault("category.mode", "none")
	v.SetDefault("category.default", "Standard")

	v.SetDefault("render.limit", 0)
	v.SetDefault("render.output", "letters.zip")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Identifier.addressable() {
		return fmt.Errorf("identifier field needs a letter, aliases, or patterns")
	}
	if err := c.Identifier.validate("identifier"); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Fields))
	for i, f := range c.Fields {
		if f.Name == "" {
			return fmt.Errorf("fields[%d]: name is required", i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("fields[%d]: duplicate field name %q", i, f.Name)
		}
		seen[f.Name] = struct{}{}
		if err := f.validate(fmt.Sprintf("fields[%d]", i)); err != nil {
			return err
		}
	}

	switch category.Mode(c.Category.Mode) {
	case category.ModeNone, category.ModeFlagColumn, category.ModeFixedList:
	default:
		return fmt.Errorf("category.mode must be one of none, flag_column, fixed_list")
	}
	if c.Category.Default == "" {
		return fmt.Errorf("category.default is required")
	}
	if category.Mode(c.Category.Mode) != category.ModeNone && c.Category.Flagged == "" {
		return fmt.Errorf("category.flagged is required for mode %q", c.Category.Mode)
	}
	if category.Mode(c.Category.Mode) == category.ModeFlagColumn && !c.Category.Flag.addressable() {
		return fmt.Errorf("category.flag needs a letter, aliases, or patterns")
	}

	if len(c.Templates.Files) == 0 && c.Templates.Default == "" {
		return fmt.Errorf("templates: at least one category file or a default template is required")
	}
	if c.Render.Limit < 0 {
		return fmt.Errorf("render.limit must not be negative")
	}
	return nil
}

func (f FieldConfig) addressable() bool {
	return f.Letter != "" || len(f.Aliases) > 0 || len(f.Patterns) > 0
}

func (f FieldConfig) validate(where string) error {
	switch field.Kind(f.Kind) {
	case "", field.KindPlain, field.KindPercent:
	default:
		return fmt.Errorf("%s: kind must be plain or percent", where)
	}
	for _, p := range f.Patterns {
		if _, err := regexp.Compile("(?im)" + p); err != nil {
			return fmt.Errorf("%s: invalid pattern %q: %w", where, p, err)
		}
	}
	return nil
}

// Spec converts a field declaration into its runtime spec.
func (f FieldConfig) Spec() field.Spec {
	return field.Spec{
		Name:     f.Name,
		Letter:   f.Letter,
		Aliases:  f.Aliases,
		Patterns: f.Patterns,
		Kind:     field.Kind(f.Kind),
	}
}

// FieldSpecs converts the configured field list.
func (c *Config) FieldSpecs() []field.Spec {
	specs := make([]field.Spec, 0, len(c.Fields))
	for _, f := range c.Fields {
		specs = append(specs, f.Spec())
	}
	return specs
}

// Rules converts the category declaration into classifier rules.
func (c *Config) Rules() category.Rules {
	rules := category.Rules{
		Mode:    category.Mode(c.Category.Mode),
		Members: c.Category.Members,
		Flagged: c.Category.Flagged,
		Default: c.Category.Default,
	}
	if c.Category.Flag.addressable() {
		rules.FlagField = c.Category.Flag.Spec()
		if rules.FlagField.Name == "" {
			rules.FlagField.Name = "_category_flag"
		}
	}
	if c.Category.Override.addressable() {
		spec := c.Category.Override.Spec()
		if spec.Name == "" {
			spec.Name = "_category_override"
		}
		rules.OverrideField = &spec
	}
	return rules
}
