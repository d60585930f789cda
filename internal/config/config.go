// Package config holds the settings that control what a gnorm report shows
// and how. Settings are read from TOML:
//
//	width = 100
//	trace_level = "debug"
//	left_recursion_input = "parsed"
//	symbol_table = true
//	hide = ["source", "rules"]
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"
)

// LRInput is the grammar left-recursion elimination is run on.
type LRInput string

func (in LRInput) String() string {
	return string(in)
}

const (
	LRInputNone   LRInput = ""
	LRInputProper LRInput = "proper"
	LRInputParsed LRInput = "parsed"
)

// ParseLRInput parses a string into an LRInput.
func ParseLRInput(s string) (LRInput, error) {
	switch strings.ToLower(s) {
	case LRInputProper.String():
		return LRInputProper, nil
	case LRInputParsed.String():
		return LRInputParsed, nil
	default:
		return LRInputNone, fmt.Errorf("not one of 'proper' or 'parsed': %q", s)
	}
}

// Section is one part of a report.
type Section string

const (
	SectionSource        Section = "source"
	SectionSymbols       Section = "symbols"
	SectionRules         Section = "rules"
	SectionPretty        Section = "pretty"
	SectionEpsilon       Section = "epsilon"
	SectionCycle         Section = "cycle"
	SectionProper        Section = "proper"
	SectionLeftRecursion Section = "left_recursion"
)

// Sections lists every Section in the order a report shows them.
var Sections = []Section{
	SectionSource,
	SectionSymbols,
	SectionRules,
	SectionPretty,
	SectionEpsilon,
	SectionCycle,
	SectionProper,
	SectionLeftRecursion,
}

// Config is the configuration of a report.
type Config struct {

	// Width is the column width text is wrapped at. If not set it defaults to
	// 80.
	Width int `toml:"width"`

	// TraceLevel is the level of trace output: "debug", "info" or "error". If
	// not set it defaults to "error".
	TraceLevel string `toml:"trace_level"`

	// LeftRecursionInput is the grammar left recursion is removed from: the
	// proper form of the parsed grammar, or the parsed grammar itself. If not
	// set it defaults to LRInputProper.
	LeftRecursionInput LRInput `toml:"left_recursion_input"`

	// SymbolTable shows the symbols of a grammar as a bordered table instead
	// of the raw listing.
	SymbolTable bool `toml:"symbol_table"`

	// Hide is the sections left out of the report.
	Hide []Section `toml:"hide"`
}

// Default returns the configuration used when none is given.
func Default() Config {
	return Config{}.FillDefaults()
}

// FillDefaults returns a new Config identitical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	if newCFG.Width == 0 {
		newCFG.Width = 80
	}
	if newCFG.TraceLevel == "" {
		newCFG.TraceLevel = "error"
	}
	if newCFG.LeftRecursionInput == LRInputNone {
		newCFG.LeftRecursionInput = LRInputProper
	}

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be
// used, call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if cfg.Width < 20 {
		return fmt.Errorf("width: must be at least 20, but is %d", cfg.Width)
	}
	if _, err := ParseTraceLevel(cfg.TraceLevel); err != nil {
		return fmt.Errorf("trace_level: %w", err)
	}
	if _, err := ParseLRInput(cfg.LeftRecursionInput.String()); err != nil {
		return fmt.Errorf("left_recursion_input: %w", err)
	}
	for _, sec := range cfg.Hide {
		if !slices.Contains(Sections, sec) {
			return fmt.Errorf("hide: unknown section %q", sec)
		}
	}
	return nil
}

// Shows returns whether the report includes sec.
func (cfg Config) Shows(sec Section) bool {
	return !slices.Contains(cfg.Hide, sec)
}

// Level returns the trace level cfg names. It must be called only on a
// validated Config.
func (cfg Config) Level() tracing.TraceLevel {
	lvl, _ := ParseTraceLevel(cfg.TraceLevel)
	return lvl
}

// ParseTraceLevel parses the name of a trace level.
func ParseTraceLevel(s string) (tracing.TraceLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return tracing.LevelDebug, nil
	case "info":
		return tracing.LevelInfo, nil
	case "error":
		return tracing.LevelError, nil
	default:
		return tracing.LevelError, fmt.Errorf("not one of 'debug', 'info' or 'error': %q", s)
	}
}

// Parse reads a Config from TOML text, fills in defaults and validates it.
// Keys that are not part of a Config are an error.
func Parse(data string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return finish(cfg, md)
}

// Load reads a Config from the TOML file at path, fills in defaults and
// validates it.
func Load(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config file: %w", err)
	}
	return finish(cfg, md)
}

func finish(cfg Config, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
