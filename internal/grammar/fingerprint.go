package grammar

import (
	"sort"

	"github.com/cnf/structhash"
)

// symbolicForm is a grammar with tokens replaced by symbols and alternatives
// sorted, so that it does not depend on token numbering or alternative order.
type symbolicForm struct {
	Start     string
	Terminals []string
	Rules     map[string][]string
}

func (g Grammar) symbolic() symbolicForm {
	form := symbolicForm{
		Rules: map[string][]string{},
	}
	if start := g.Start(); start != RuleSep {
		form.Start = string(g.Symbol(start))
	}

	for _, sym := range g.TerminalKeys() {
		form.Terminals = append(form.Terminals, string(sym))
	}
	sort.Strings(form.Terminals)

	for _, nt := range g.RuleOwners() {
		var alts []string
		for _, alt := range g.RuleMatrix(nt) {
			alts = append(alts, g.PrettyAlternative(alt))
		}
		sort.Strings(alts)
		form.Rules[string(g.Symbol(nt))] = alts
	}

	return form
}

// Fingerprint returns a hash of the grammar's symbols and rules that is the
// same for any two grammars that differ only in token numbering or in the
// order of alternatives.
func (g Grammar) Fingerprint() (string, error) {
	return structhash.Hash(g.symbolic(), 1)
}

// StructurallyEqual returns whether a and b have the same fingerprint.
func StructurallyEqual(a, b Grammar) (bool, error) {
	fa, err := a.Fingerprint()
	if err != nil {
		return false, err
	}
	fb, err := b.Fingerprint()
	if err != nil {
		return false, err
	}
	return fa == fb, nil
}
