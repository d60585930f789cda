package grammar

import (
	"github.com/dekarrin/gnorm/internal/util"
	"golang.org/x/exp/slices"
)

// RemoveUnitProductions returns a grammar deriving the same language as g in
// which no alternative is a lone nonterminal.
//
// Each pass walks the nonterminals lowest token first and replaces every unit
// alternative A -> B of A with the current alternatives of B. A -> A is
// dropped and duplicates are not added. Once B has been inlined into A, a
// later A -> B only brings in those alternatives of B that are not units of
// nonterminals already inlined into A. Passes repeat until no unit
// alternative and no cycle of them is left.
//
// Nonterminals left without any alternative derive nothing; they are removed
// along with every alternative referring to them. If the start symbol is one
// of them, the result keeps the start and the terminals but has no rules.
func RemoveUnitProductions(g Grammar) Grammar {
	order := g.RuleOwners()
	work := map[Token]Matrix{}
	resolved := map[Token]util.KeySet[Token]{}
	for _, nt := range order {
		var m Matrix
		for _, alt := range g.RuleMatrix(nt) {
			if alt.IsUnit() && alt[0] == nt {
				continue
			}
			m = m.Append(alt)
		}
		work[nt] = m
		resolved[nt] = util.NewKeySet[Token]()
	}

	matrixOf := func(nt Token) Matrix { return work[nt] }

	for pass := 1; hasUnit(order, work) || len(cyclicPath(order, matrixOf)) > 0; pass++ {
		for _, A := range order {
			var next Matrix
			for _, alt := range work[A] {
				if !alt.IsUnit() {
					next = next.Append(alt)
					continue
				}
				B := alt[0]
				if B == A {
					continue
				}
				for _, inlined := range work[B] {
					if inlined.IsUnit() && (inlined[0] == A || resolved[A].Has(inlined[0])) {
						continue
					}
					next = next.Append(inlined)
				}
				resolved[A].Add(B)
			}
			work[A] = next
		}

		witness := cyclicPath(order, matrixOf)
		if len(witness) > 0 {
			tracer().Debugf("unit pass %d: cycle remains through %v", pass, g.Symbols(witness))
		} else {
			tracer().Debugf("unit pass %d: no cycle remains", pass)
		}
	}

	survivors := pruneBarren(order, work)
	if !slices.Contains(survivors, g.Start()) {
		return emptyLanguage(g)
	}
	out, _ := assemble(g, survivors, work)
	return out
}

func hasUnit(order []Token, work map[Token]Matrix) bool {
	for _, nt := range order {
		for _, alt := range work[nt] {
			if alt.IsUnit() {
				return true
			}
		}
	}
	return false
}

// pruneBarren removes every nonterminal with no alternatives from work, along
// with every alternative referring to one, until none is left. It returns the
// nonterminals of order that remain.
func pruneBarren(order []Token, work map[Token]Matrix) []Token {
	gone := util.NewKeySet[Token]()
	for {
		barren := util.NewKeySet[Token]()
		for _, nt := range order {
			if !gone.Has(nt) && len(work[nt]) == 0 {
				barren.Add(nt)
			}
		}
		if barren.Empty() {
			break
		}
		tracer().Debugf("dropping nonterminals that derive nothing: %v", util.Ordered(barren))
		gone.AddAll(barren)

		for _, nt := range order {
			if gone.Has(nt) {
				delete(work, nt)
				continue
			}
			var kept Matrix
			for _, alt := range work[nt] {
				if !refersToAny(alt, barren) {
					kept = append(kept, alt)
				}
			}
			work[nt] = kept
		}
	}

	var survivors []Token
	for _, nt := range order {
		if !gone.Has(nt) {
			survivors = append(survivors, nt)
		}
	}
	return survivors
}

func refersToAny(alt Alternative, toks util.KeySet[Token]) bool {
	for _, tok := range alt {
		if toks.Has(tok) {
			return true
		}
	}
	return false
}
