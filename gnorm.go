// Package gnorm runs the full normalization pipeline over a grammar read from
// source text and produces a report of every intermediate result, suitable
// for printing to a console.
package gnorm

import (
	"fmt"
	"strings"

	"github.com/dekarrin/gnorm/internal/config"
	"github.com/dekarrin/gnorm/internal/gramerr"
	"github.com/dekarrin/gnorm/internal/gramfile"
	"github.com/dekarrin/gnorm/internal/grammar"
	"github.com/dekarrin/rosed"
)

// EpsilonFlag records whether one nonterminal has an empty alternative.
type EpsilonFlag struct {
	Symbol   grammar.Symbol
	HasEmpty bool
}

// Report holds the results of analyzing a single grammar.
type Report struct {
	// Source is the text the grammar was read from. It is empty if the
	// grammar was not read from text.
	Source string

	// Parsed is the grammar as read.
	Parsed grammar.Grammar

	// Epsilon has one entry per nonterminal of Parsed, in token order.
	Epsilon []EpsilonFlag

	// Cycle is a witness of a unit-production cycle in Parsed, or nil if
	// there is none.
	Cycle []grammar.Symbol

	// Proper is the proper form of Parsed.
	Proper grammar.Grammar

	// ProperFingerprint is the structural fingerprint of Proper.
	ProperFingerprint string

	// ProperStable is whether putting Proper into proper form again gives a
	// structurally equal grammar.
	ProperStable bool

	// LeftRecursionInput is the grammar LeftRecursionFree was derived from.
	LeftRecursionInput config.LRInput

	// LeftRecursionFree is the result of removing left recursion. It is only
	// valid if LeftRecursionErr is nil.
	LeftRecursionFree grammar.Grammar

	// LeftRecursionErr is the reason left recursion could not be removed, if
	// it could not be.
	LeftRecursionErr error

	cfg config.Config
}

// Analyze parses src and runs every analysis and transform on the result.
// cfg has its defaults filled before use. An error is returned if cfg is
// invalid or if src could not be parsed; a failure to remove left recursion
// is not an error and is instead recorded in the returned Report.
func Analyze(src string, cfg config.Config) (Report, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("config: %w", err)
	}

	g, err := gramfile.Parse(src)
	if err != nil {
		return Report{}, err
	}

	r, err := AnalyzeGrammar(g, cfg)
	if err != nil {
		return Report{}, err
	}
	r.Source = src
	return r, nil
}

// AnalyzeGrammar is Analyze for a grammar that has already been built.
func AnalyzeGrammar(g grammar.Grammar, cfg config.Config) (Report, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("config: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Report{}, fmt.Errorf("grammar: %w", err)
	}

	r := Report{
		Parsed:             g,
		LeftRecursionInput: cfg.LeftRecursionInput,
		cfg:                cfg,
	}

	for _, nt := range g.NonTerminals() {
		r.Epsilon = append(r.Epsilon, EpsilonFlag{
			Symbol:   g.Symbol(nt),
			HasEmpty: g.HasEmptyProduction(nt),
		})
	}

	if path := g.CyclicPath(); len(path) > 0 {
		r.Cycle = g.Symbols(path)
	}

	r.Proper = grammar.MakeProperForm(g)

	var err error
	r.ProperFingerprint, err = r.Proper.Fingerprint()
	if err != nil {
		return Report{}, fmt.Errorf("fingerprint proper form: %w", err)
	}
	r.ProperStable, err = grammar.StructurallyEqual(r.Proper, grammar.MakeProperForm(r.Proper))
	if err != nil {
		return Report{}, fmt.Errorf("check proper form: %w", err)
	}

	lrIn := r.Proper
	if cfg.LeftRecursionInput == config.LRInputParsed {
		lrIn = g
	}
	r.LeftRecursionFree, r.LeftRecursionErr = grammar.RemoveLeftRecursion(lrIn)

	return r, nil
}

// Render returns the full text of the report. Sections hidden by the config
// the report was made with are left out.
func (r Report) Render() string {
	cfg := r.cfg.FillDefaults()
	var sb strings.Builder

	if cfg.Shows(config.SectionSource) && r.Source != "" {
		sb.WriteString("\nGrammar Read From File\n")
		sb.WriteString(r.Source)
		if !strings.HasSuffix(r.Source, "\n") {
			sb.WriteRune('\n')
		}
		sb.WriteRune('\n')
	}

	if cfg.Shows(config.SectionSymbols) || cfg.Shows(config.SectionRules) {
		sb.WriteString(r.listing(r.Parsed, cfg))
		sb.WriteRune('\n')
	}

	if cfg.Shows(config.SectionPretty) {
		sb.WriteString("Prettified rules\n")
		sb.WriteString(r.Parsed.Pretty())
		sb.WriteRune('\n')
	}

	if cfg.Shows(config.SectionEpsilon) {
		sb.WriteString("Epsilon check\n")
		for _, flag := range r.Epsilon {
			sb.WriteString(fmt.Sprintf("%s has epsilon? %t\n", flag.Symbol, flag.HasEmpty))
		}
		sb.WriteRune('\n')
	}

	if cfg.Shows(config.SectionCycle) {
		sb.WriteString("Cycle check\n")
		if len(r.Cycle) > 0 {
			sb.WriteString("Found cycle\n")
			names := make([]string, len(r.Cycle))
			for i := range r.Cycle {
				names[i] = r.Cycle[i].String()
			}
			sb.WriteString(strings.Join(names, " --> "))
			sb.WriteRune('\n')
		} else {
			sb.WriteString("Could not find cycle\n")
		}
		sb.WriteRune('\n')
	}

	if cfg.Shows(config.SectionProper) {
		sb.WriteString("Proper form\n")
		sb.WriteString(r.Proper.Pretty())
		if r.ProperStable {
			sb.WriteString("Proper form is stable under another pass\n")
		} else {
			sb.WriteString("Proper form changed under another pass\n")
		}
		sb.WriteString("Fingerprint: " + r.ProperFingerprint + "\n")
		sb.WriteRune('\n')
	}

	if cfg.Shows(config.SectionLeftRecursion) {
		if r.LeftRecursionErr == nil {
			sb.WriteString("Removed all left recursion from the grammar\n")
			sb.WriteString(r.listing(r.LeftRecursionFree, cfg))
			sb.WriteString(r.LeftRecursionFree.Pretty())
		} else {
			sb.WriteString("Could not clean the grammar\n")
			sb.WriteString(fmt.Sprintf("(left recursion input: %s grammar)\n", r.LeftRecursionInput))
			sb.WriteString(rosed.Edit(gramerr.Message(r.LeftRecursionErr)).Wrap(cfg.Width).String())
			sb.WriteRune('\n')
		}
		sb.WriteRune('\n')
	}

	sb.WriteString("END OF PROGRAM\n")
	return sb.String()
}

// listing gives the symbol and rule sections for g, either as the raw listing
// or with the symbols as a table.
func (r Report) listing(g grammar.Grammar, cfg config.Config) string {
	showSyms := cfg.Shows(config.SectionSymbols)
	showRules := cfg.Shows(config.SectionRules)

	if cfg.SymbolTable {
		var sb strings.Builder
		if showSyms {
			sb.WriteString(g.Table(cfg.Width))
			sb.WriteRune('\n')
		}
		if showRules {
			sb.WriteString(rulesOnly(g.String()))
		}
		return sb.String()
	}

	full := g.String()
	switch {
	case showSyms && showRules:
		return full
	case showRules:
		return rulesOnly(full)
	case showSyms:
		return full[:strings.Index(full, "Rules:\n")]
	default:
		return ""
	}
}

// rulesOnly cuts the symbol mapping off of a raw listing.
func rulesOnly(listing string) string {
	idx := strings.Index(listing, "Rules:\n")
	if idx < 0 {
		return listing
	}
	return listing[idx:]
}
