package grammar

// CopyTerminals registers every terminal of src in g, keeping src's tokens
// where possible, and returns how src's terminal tokens map onto g's.
func (g *Grammar) CopyTerminals(src Grammar) Substitution {
	g.init()
	sub := Substitution{}
	for _, t := range src.Terminals() {
		got := g.AddTerminal(src.Symbol(t), t)
		if got != t {
			tracer().Debugf("terminal %s remapped %d -> %d", src.Symbol(t), t, got)
		}
		sub[t] = got
	}
	return sub
}

// CopyNonTerminals registers the given nonterminals of src in g, in order,
// and records in sub how their tokens map onto g's. Rules are not copied.
func (g *Grammar) CopyNonTerminals(src Grammar, nts []Token, sub Substitution) {
	g.init()
	for _, nt := range nts {
		got := g.AddNonTerminal(src.Symbol(nt), nt)
		if got != nt {
			tracer().Debugf("nonterminal %s remapped %d -> %d", src.Symbol(nt), nt, got)
		}
		sub[nt] = got
	}
}

// CopyIn registers every symbol of src in g and returns the substitution from
// src's tokens to g's. Rules are not copied; apply the substitution to every
// rule body taken from src before storing it in g.
func (g *Grammar) CopyIn(src Grammar) Substitution {
	sub := g.CopyTerminals(src)
	g.CopyNonTerminals(src, src.NonTerminals(), sub)
	return sub
}

// assemble builds a new grammar from the terminals of src and the listed
// nonterminals of src with their rules taken from work. Symbols in lead are
// registered as nonterminals before anything else, so they get the lowest
// tokens. Nonterminals whose matrix in work is empty get no rule.
func assemble(src Grammar, nts []Token, work map[Token]Matrix, lead ...Symbol) (Grammar, Substitution) {
	out := Empty()
	for _, sym := range lead {
		out.GetNonTerminal(sym)
	}
	sub := out.CopyTerminals(src)
	out.CopyNonTerminals(src, nts, sub)
	for _, nt := range nts {
		out.SetMatrix(sub.Of(nt), sub.ApplyMatrix(work[nt]))
	}
	return out, sub
}

// emptyLanguage returns a grammar with the terminals of src and no rules. The
// start symbol of src stays registered as the lowest nonterminal, so the
// result derives nothing from the same start.
func emptyLanguage(src Grammar) Grammar {
	var lead []Symbol
	if start := src.Start(); start != RuleSep {
		lead = append(lead, src.Symbol(start))
		tracer().Debugf("start %s derives nothing; dropping every rule", src.Symbol(start))
	}
	out, _ := assemble(src, nil, nil, lead...)
	return out
}
