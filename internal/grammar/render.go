package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Epsilon is how an empty alternative is shown by Pretty and Table.
const Epsilon = "ε"

// String returns the fixed-width listing of the registry followed by the raw
// rule bodies, with RuleSep shown as the alternation character.
func (g Grammar) String() string {
	var sb strings.Builder

	sb.WriteString("Symbol mapping (Negative = terminal):\n")
	for _, tok := range g.tokens() {
		sb.WriteString(fmt.Sprintf("%2d --> %2s\n", int(tok), g.Symbol(tok)))
	}

	sb.WriteString("Rules:\n")
	for _, nt := range g.RuleOwners() {
		sb.WriteString(fmt.Sprintf("%2d --> ", int(nt)))
		for _, tok := range g.Rule(nt) {
			if tok == RuleSep {
				sb.WriteString(" " + string(RuleSepSymbol) + " ")
			} else {
				sb.WriteString(fmt.Sprintf("%2d ", int(tok)))
			}
		}
		sb.WriteRune('\n')
	}

	return sb.String()
}

// Pretty returns one line per rule written with symbols, e.g.
// "E --> E + T | T".
func (g Grammar) Pretty() string {
	var sb strings.Builder
	for _, nt := range g.RuleOwners() {
		sb.WriteString(g.PrettyRule(nt))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PrettyRule returns the rule of nt written with symbols.
func (g Grammar) PrettyRule(nt Token) string {
	return fmt.Sprintf("%s --> %s", g.Symbol(nt), g.prettyAlternatives(nt))
}

func (g Grammar) prettyAlternatives(nt Token) string {
	m := g.RuleMatrix(nt)
	alts := make([]string, len(m))
	for i := range m {
		alts[i] = g.PrettyAlternative(m[i])
	}
	return strings.Join(alts, " "+string(RuleSepSymbol)+" ")
}

// PrettyAlternative returns alt written with symbols separated by spaces, or
// Epsilon if it is empty.
func (g Grammar) PrettyAlternative(alt Alternative) string {
	if alt.IsEmpty() {
		return Epsilon
	}
	syms := make([]string, len(alt))
	for i := range alt {
		syms[i] = string(g.Symbol(alt[i]))
	}
	return strings.Join(syms, " ")
}

// Table returns the registry as a text table with one row per token, giving
// its symbol, its kind, and for nonterminals the alternatives of its rule.
// width is the total width of the table.
func (g Grammar) Table(width int) string {
	data := [][]string{{"Token", "Symbol", "Kind", "Alternatives"}}

	for _, tok := range g.tokens() {
		var kind, alts string
		switch {
		case tok == RuleSep:
			kind = "separator"
		case tok.IsTerminal():
			kind = "terminal"
		default:
			kind = "nonterminal"
			if g.HasRule(tok) {
				alts = g.prettyAlternatives(tok)
			}
		}
		data = append(data, []string{tok.String(), string(g.Symbol(tok)), kind, alts})
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, width, tableOpts).
		String()
}
