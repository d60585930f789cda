package grammar

// MakeProperForm returns g without empty alternatives, unit alternatives and
// unreachable nonterminals, in that order. Each step can create work for the
// next one and none for an earlier one. The start symbol may keep an empty
// alternative; see RemoveEpsilon.
//
// A nullable start that no rule body uses keeps its empty alternative instead
// of being replaced by an augmented start. Such a result never meets the
// precondition of RemoveLeftRecursion, which fails with an empty production
// for the start.
func MakeProperForm(g Grammar) Grammar {
	return RemoveUnreachables(RemoveUnitProductions(RemoveEpsilon(g)))
}
