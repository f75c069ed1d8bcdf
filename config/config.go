// Package config loads the settings that control how journals are loaded and
// rendered. Settings come from a YAML file, overlaid with HLEDGER_* environment
// variables, which may in turn be seeded from a .env file:
//
//	base_dir: /srv/books
//	check_accounts: true
//	max_include_depth: 16
//	amount_column: 52
//	indentation: 4
//	color: auto
//
// A Config converts into options for the loader and formatter packages.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/hledger/errors"
	"github.com/robinvdvleuten/hledger/formatter"
	"github.com/robinvdvleuten/hledger/loader"
	"github.com/robinvdvleuten/hledger/output"
)

// EnvPrefix prefixes every environment variable the configuration reads.
const EnvPrefix = "HLEDGER_"

// Config holds loader and formatter settings.
type Config struct {
	// BaseDir resolves relative journal paths and the includes of text journals.
	// Empty means the working directory.
	BaseDir string `yaml:"base_dir"`

	// CheckAccounts rejects journals that post to undeclared accounts.
	CheckAccounts bool `yaml:"check_accounts"`

	// MaxIncludeDepth limits include nesting. Zero means no limit.
	MaxIncludeDepth int `yaml:"max_include_depth" validate:"gte=0,lte=1000"`

	// AmountColumn is the column posting amounts are aligned to. Zero aligns to
	// the widest posting.
	AmountColumn int `yaml:"amount_column" validate:"gte=0,lte=400"`

	// Indentation is the number of spaces before each posting.
	Indentation int `yaml:"indentation" validate:"gte=1,lte=16"`

	// Color selects when output is colored.
	Color output.ColorMode `yaml:"color" validate:"oneof=auto always never"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		MaxIncludeDepth: 64,
		Indentation:     formatter.DefaultIndentation,
		Color:           output.ColorAuto,
	}
}

// Load reads the YAML file at path on top of the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := cfg.Decode(f); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads YAML settings from r into c. Unknown keys are rejected; an empty
// document leaves c unchanged.
func (c *Config) Decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !stderrors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// ApplyEnvFile applies the HLEDGER_* variables defined in the .env files at paths
// without changing the process environment. Variables already set in the process
// environment take precedence over the files.
func (c *Config) ApplyEnvFile(paths ...string) error {
	vars, err := godotenv.Read(paths...)
	if err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return c.ApplyEnv(func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := vars[key]
		return value, ok
	})
}

// ApplyEnv overrides settings with the HLEDGER_* variables that lookup reports.
func (c *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	if value, ok := lookup(EnvPrefix + "BASE_DIR"); ok {
		c.BaseDir = value
	}
	if value, ok := lookup(EnvPrefix + "COLOR"); ok {
		c.Color = output.ColorMode(strings.ToLower(strings.TrimSpace(value)))
	}

	if value, ok := lookup(EnvPrefix + "CHECK_ACCOUNTS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid %sCHECK_ACCOUNTS: %w", EnvPrefix, err)
		}
		c.CheckAccounts = b
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"MAX_INCLUDE_DEPTH", &c.MaxIncludeDepth},
		{"AMOUNT_COLUMN", &c.AmountColumn},
		{"INDENTATION", &c.Indentation},
	}
	for _, v := range ints {
		value, ok := lookup(EnvPrefix + v.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, v.key, err)
		}
		*v.dst = n
	}
	return nil
}

// ValidationError lists the settings that are out of range, keyed by their YAML
// name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	problems := make([]string, len(names))
	for i, name := range names {
		problems[i] = name + ": " + e.Fields[name]
	}
	return "invalid configuration: " + strings.Join(problems, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every setting against its allowed range.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Field()] = fmt.Sprintf("%v does not satisfy %s", fe.Value(), rule)
	}
	return &ValidationError{Fields: fields}
}

// LoaderOptions returns the loader options the configuration selects.
func (c *Config) LoaderOptions() []loader.Option {
	opts := []loader.Option{loader.WithMaxIncludeDepth(c.MaxIncludeDepth)}
	if c.BaseDir != "" {
		opts = append(opts, loader.WithBaseDir(c.BaseDir))
	}
	if c.CheckAccounts {
		opts = append(opts, loader.WithAccountCheck())
	}
	return opts
}

// FormatterOptions returns the formatter options the configuration selects.
func (c *Config) FormatterOptions() []formatter.Option {
	return []formatter.Option{
		formatter.WithAmountColumn(c.AmountColumn),
		formatter.WithIndentation(c.Indentation),
	}
}

// JournalFormatter returns a journal formatter for output written to w, with
// accounts and amounts highlighted when the color mode allows it.
func (c *Config) JournalFormatter(w io.Writer) *formatter.Formatter {
	opts := c.FormatterOptions()
	if styles := c.Styles(w); styles.Colored() {
		opts = append(opts, formatter.WithStyles(styles))
	}
	return formatter.New(opts...)
}

// Styles returns output styles for w in the configured color mode.
func (c *Config) Styles(w io.Writer) *output.Styles {
	return output.NewStylesWithMode(w, c.Color)
}

// ErrorFormatter returns a text formatter for errors written to w, colored
// according to the configured color mode.
func (c *Config) ErrorFormatter(w io.Writer, opts ...errors.TextFormatterOption) *errors.TextFormatter {
	if c.Styles(w).Colored() {
		r := lipgloss.NewRenderer(w)
		if c.Color == output.ColorAlways {
			r.SetColorProfile(termenv.ANSI256)
		}
		opts = append(opts, errors.WithRenderer(r))
	}
	return errors.NewTextFormatter(formatter.New(c.FormatterOptions()...), opts...)
}
