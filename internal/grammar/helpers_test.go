package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stretchr/testify/assert"
)

// setupGrammar builds a grammar from rules written like "S -> a S | ε", with
// symbols separated by whitespace. Every left-hand side is registered first,
// in the order given, so the first rule's symbol is the start symbol. Other
// symbols are nonterminals if they are a left-hand side, a single upper-case
// letter, or bracketed; everything else is a terminal.
func setupGrammar(rules []string) Grammar {
	type parsedRule struct {
		head Symbol
		alts [][]Symbol
	}

	g := Empty()

	var parsed []parsedRule
	for _, r := range rules {
		sides := strings.SplitN(r, "->", 2)
		if len(sides) != 2 {
			panic(fmt.Sprintf("not a rule: %q", r))
		}
		p := parsedRule{head: Symbol(strings.TrimSpace(sides[0]))}
		for _, altText := range strings.Split(sides[1], "|") {
			alt := []Symbol{}
			for _, f := range strings.Fields(altText) {
				if f != Epsilon {
					alt = append(alt, Symbol(f))
				}
			}
			p.alts = append(p.alts, alt)
		}
		parsed = append(parsed, p)
		g.GetNonTerminal(p.head)
	}

	for _, p := range parsed {
		var m Matrix
		for _, alt := range p.alts {
			toks := Alternative{}
			for _, sym := range alt {
				if g.IsNonTerminalSymbol(sym) || sym.IsUpper() || sym.IsBracketed() {
					toks = append(toks, g.GetNonTerminal(sym))
				} else {
					toks = append(toks, g.GetTerminal(sym))
				}
			}
			m = append(m, toks)
		}
		g.AddRule(p.head, Encode(m))
	}

	return g
}

// assertIdenticalProductionSets asserts whether the two grammars have the same
// nonterminals and that all nonterminals with the same symbol have the same
// sets of alternatives, not necessarily in the same order. Tokens are not
// compared.
func assertIdenticalProductionSets(assert *assert.Assertions, expect, actual Grammar) {
	expectForm := expect.symbolic()
	actualForm := actual.symbolic()

	expectNonTerminals := orderedKeys(expectForm.Rules)
	actualNonTerminals := orderedKeys(actualForm.Rules)

	if !assert.ElementsMatch(expectNonTerminals, actualNonTerminals, "grammars do not have the same nonterminals; actual:\n%s", actual.Pretty()) {
		return
	}

	for _, nt := range expectNonTerminals {
		exp := expectForm.Rules[nt]
		act := actualForm.Rules[nt]

		assert.ElementsMatchf(exp, act, "expected %s to have alternatives %q but had %q", nt, exp, act)
	}
}

func orderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
