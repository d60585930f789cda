package grammar

import "github.com/dekarrin/gnorm/internal/util"

// HasEmptyProduction returns whether the rule of nt has an empty alternative.
// The flat body is scanned for a RuleSep at its start or end or next to
// another RuleSep; an empty body is a single empty alternative.
func (g Grammar) HasEmptyProduction(nt Token) bool {
	if !g.HasRule(nt) {
		return false
	}
	body := g.Rule(nt)
	if len(body) == 0 {
		return true
	}
	for i, tok := range body {
		if tok != RuleSep {
			continue
		}
		if i == 0 || i == len(body)-1 || body[i-1] == RuleSep {
			return true
		}
	}
	return false
}

// HasAnyEmptyProduction returns whether any nonterminal has an empty
// alternative.
func (g Grammar) HasAnyEmptyProduction() bool {
	return len(g.EmptyProductions()) > 0
}

// EmptyProductions returns every nonterminal with an empty alternative,
// ascending.
func (g Grammar) EmptyProductions() []Token {
	var nullable []Token
	for _, nt := range g.RuleOwners() {
		if g.HasEmptyProduction(nt) {
			nullable = append(nullable, nt)
		}
	}
	return nullable
}

// HasAnyUnitProduction returns whether any alternative of any rule is a lone
// nonterminal.
func (g Grammar) HasAnyUnitProduction() bool {
	for _, nt := range g.RuleOwners() {
		for _, alt := range g.RuleMatrix(nt) {
			if alt.IsUnit() {
				return true
			}
		}
	}
	return false
}

// CyclicPath searches for a nonterminal that derives itself through a chain of
// unit alternatives, ignoring the trivial A -> A. It returns the path of
// nonterminals walked, which ends with a nonterminal already on it, or nil if
// there is no such cycle.
//
// Every simple path of unit alternatives may be walked, so this is
// exponential in the worst case.
func (g Grammar) CyclicPath() []Token {
	return cyclicPath(g.RuleOwners(), g.RuleMatrix)
}

// HasAnyCycle returns whether CyclicPath finds a cycle.
func (g Grammar) HasAnyCycle() bool {
	return len(g.CyclicPath()) > 0
}

type pathFrame struct {
	nt Token

	// index of the alternative of nt last pushed, -1 if none yet.
	last int
}

// cyclicPath runs the cycle search over the alternatives given by matrixOf,
// trying start points in the given order.
func cyclicPath(starts []Token, matrixOf func(Token) Matrix) []Token {
	matrices := map[Token]Matrix{}
	alternativesOf := func(nt Token) Matrix {
		m, ok := matrices[nt]
		if !ok {
			m = matrixOf(nt)
			matrices[nt] = m
		}
		return m
	}

	for _, start := range starts {
		path := []pathFrame{{nt: start, last: -1}}
		for len(path) > 0 {
			top := &path[len(path)-1]
			alts := alternativesOf(top.nt)

			next := -1
			for i := top.last + 1; i < len(alts); i++ {
				if alts[i].IsUnit() && alts[i][0] != top.nt {
					next = i
					break
				}
			}
			if next < 0 {
				path = path[:len(path)-1]
				continue
			}
			top.last = next
			path = append(path, pathFrame{nt: alts[next][0], last: -1})

			if witness := repeatedPath(path); witness != nil {
				tracer().Debugf("cycle witness from %d: %v", start, witness)
				return witness
			}
		}
	}
	return nil
}

// repeatedPath returns the tokens of path if any nonterminal occurs on it
// twice, or nil.
func repeatedPath(path []pathFrame) []Token {
	toks := make([]Token, len(path))
	seen := util.NewKeySet[Token]()
	repeated := false
	for i := range path {
		toks[i] = path[i].nt
		if seen.Has(toks[i]) {
			repeated = true
		}
		seen.Add(toks[i])
	}
	if !repeated {
		return nil
	}
	return toks
}

// Reachable returns every nonterminal reachable from the start symbol through
// the rules, the start included, ascending.
func (g Grammar) Reachable() []Token {
	start := g.Start()
	if start == RuleSep {
		return nil
	}

	visited := util.KeySetOf([]Token{start})
	queue := []Token{start}
	for len(queue) > 0 {
		nt := queue[0]
		queue = queue[1:]
		for _, alt := range g.RuleMatrix(nt) {
			for _, tok := range alt {
				if tok.IsNonTerminal() && !visited.Has(tok) {
					visited.Add(tok)
					queue = append(queue, tok)
				}
			}
		}
	}

	return util.Ordered(visited)
}
