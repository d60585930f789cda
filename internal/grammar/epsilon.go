package grammar

import "github.com/dekarrin/gnorm/internal/util"

// RemoveEpsilon returns a grammar deriving the same language as g in which no
// nonterminal has an empty alternative, except possibly the start symbol.
//
// Nullable nonterminals are propagated one at a time, lowest token first: every
// alternative containing the nullable nonterminal is joined by every variant
// of it with some of those occurrences deleted. Alternatives emptied that way
// make their owner nullable in turn. A nonterminal whose alternatives are all
// empty is removed and its occurrences deleted outright.
//
// If the start symbol turns out to be nullable it keeps a single empty
// alternative, unless it also occurs in some rule body; then a fresh start
// S' -> S | ε is added as the lowest nonterminal.
//
// If no nonterminal of g has an empty alternative, a copy of g is returned.
func RemoveEpsilon(g Grammar) Grammar {
	if !g.HasAnyEmptyProduction() {
		return g.Copy()
	}

	order := g.RuleOwners()
	start := g.Start()
	work := map[Token]Matrix{}
	for _, nt := range order {
		work[nt] = g.RuleMatrix(nt)
	}

	propagated := util.NewKeySet[Token]()
	removed := util.NewKeySet[Token]()
	startNullable := false

	for {
		A := nextNullable(order, work, removed, propagated)
		if A == RuleSep {
			break
		}
		if A == start {
			startNullable = true
		}

		onlyEmpty := work[A].OnlyEmpty()
		tracer().Debugf("propagating epsilon of %s (only epsilon: %t)", g.Symbol(A), onlyEmpty)

		for _, B := range order {
			if removed.Has(B) {
				continue
			}
			var rewritten Matrix
			for _, alt := range work[B] {
				switch {
				case !alt.Has(A):
					rewritten = rewritten.Append(alt)
				case onlyEmpty:
					rewritten = rewritten.Append(deleteAll(alt, A))
				default:
					for _, variant := range epsilonRewrites(A, alt) {
						rewritten = rewritten.Append(variant)
					}
				}
			}

			// B's own epsilon has already been propagated, or is being
			// propagated right now
			if propagated.Has(B) || B == A {
				rewritten = rewritten.WithoutEmpty()
			}
			work[B] = rewritten
		}

		propagated.Add(A)
		if onlyEmpty {
			removed.Add(A)
			delete(work, A)
		} else {
			work[A] = work[A].WithoutEmpty()
		}
	}

	var survivors []Token
	for _, nt := range order {
		if !removed.Has(nt) {
			survivors = append(survivors, nt)
		}
	}

	if removed.Has(start) {
		// the start derived nothing but ε; it no longer occurs anywhere
		survivors = append([]Token{start}, survivors...)
		work[start] = Matrix{Alternative{}}
		out, _ := assemble(g, survivors, work)
		return out
	}

	if startNullable && occursIn(work, start) {
		freshStart := g.FreshSymbol(g.Symbol(start))
		tracer().Debugf("start %s is nullable and used in a body; adding %s", g.Symbol(start), freshStart)

		out, sub := assemble(g, survivors, work, freshStart)
		out.SetMatrix(out.GetNonTerminal(freshStart), Matrix{
			Alternative{sub.Of(start)},
			Alternative{},
		})
		return out
	}

	if startNullable {
		work[start] = append(work[start], Alternative{})
	}
	out, _ := assemble(g, survivors, work)
	return out
}

// nextNullable returns the lowest nonterminal that still has an empty
// alternative. A nonterminal whose epsilon was propagated already and that has
// since lost every alternative derives only ε; it gets its empty alternative
// back and is returned so it can be removed. RuleSep is returned once nothing
// is left to propagate.
func nextNullable(order []Token, work map[Token]Matrix, removed, propagated util.KeySet[Token]) Token {
	for _, nt := range order {
		if !removed.Has(nt) && work[nt].HasEmpty() {
			return nt
		}
	}
	for _, nt := range order {
		if !removed.Has(nt) && propagated.Has(nt) && len(work[nt]) == 0 {
			work[nt] = Matrix{Alternative{}}
			return nt
		}
	}
	return RuleSep
}

// epsilonRewrites returns every variant of alt with some subset of the
// occurrences of nullable deleted, alt itself first.
func epsilonRewrites(nullable Token, alt Alternative) Matrix {
	var positions []int
	for i := range alt {
		if alt[i] == nullable {
			positions = append(positions, i)
		}
	}

	var variants Matrix
	for mask := 0; mask < 1<<len(positions); mask++ {
		deleted := util.NewKeySet[int]()
		for bit, pos := range positions {
			if mask&(1<<bit) != 0 {
				deleted.Add(pos)
			}
		}

		variant := Alternative{}
		for i := range alt {
			if !deleted.Has(i) {
				variant = append(variant, alt[i])
			}
		}
		variants = variants.Append(variant)
	}
	return variants
}

// deleteAll returns alt without any occurrence of tok.
func deleteAll(alt Alternative, tok Token) Alternative {
	kept := Alternative{}
	for i := range alt {
		if alt[i] != tok {
			kept = append(kept, alt[i])
		}
	}
	return kept
}

// occursIn returns whether tok is used in any alternative of work.
func occursIn(work map[Token]Matrix, tok Token) bool {
	for _, m := range work {
		for _, alt := range m {
			if alt.Has(tok) {
				return true
			}
		}
	}
	return false
}
