package grammar

// RemoveUnreachables returns a grammar holding only the rules of the
// nonterminals reachable from the start symbol of g. Every terminal of g is
// kept. If the start symbol has no rule, no rule is reachable.
func RemoveUnreachables(g Grammar) Grammar {
	if !g.HasRule(g.Start()) {
		return emptyLanguage(g)
	}
	reachable := g.Reachable()

	work := map[Token]Matrix{}
	var kept []Token
	for _, nt := range reachable {
		if !g.HasRule(nt) {
			continue
		}
		kept = append(kept, nt)
		work[nt] = g.RuleMatrix(nt)
	}

	if dropped := len(g.RuleOwners()) - len(kept); dropped > 0 {
		tracer().Debugf("dropping %d unreachable nonterminal(s)", dropped)
	}

	out, _ := assemble(g, kept, work)
	return out
}
