package grammar

import (
	"github.com/dekarrin/gnorm/internal/gramerr"
	"golang.org/x/exp/slices"
)

// RemoveLeftRecursion returns a grammar deriving the same language as g in
// which no nonterminal derives a sentential form starting with itself.
//
// g must have no empty alternative and no cycle of unit alternatives; if it
// does, a *gramerr.PreconditionError naming the empty production or holding
// the cycle is returned. Run MakeProperForm first to meet this.
//
// Nonterminals A1..An are taken in canonical order. Each alternative of Ai
// that starts with an earlier Aj is replaced by one alternative per finished
// alternative of Aj. Then immediate left recursion on Ai is split off:
//
//	A  -> A α1 | ... | A αm | β1 | ... | βn
//
// becomes
//
//	A  -> β1 A' | ... | βn A'
//	A' -> α1 A' | ... | αm A' | ε
//
// where A' is a fresh nonterminal. A nonterminal with no β derives nothing and
// is removed along with every alternative referring to it. If that removes the
// start symbol, the result keeps the start and the terminals but has no rules.
//
// The substitution step can multiply alternatives, so this is exponential in
// the worst case.
func RemoveLeftRecursion(g Grammar) (Grammar, error) {
	const op = "remove left recursion"

	if nullable := g.EmptyProductions(); len(nullable) > 0 {
		return Grammar{}, gramerr.EmptyProductionIn(op, string(g.Symbol(nullable[0])))
	}
	if witness := g.CyclicPath(); len(witness) > 0 {
		return Grammar{}, gramerr.CycleIn(op, symbolStrings(g.Symbols(witness)))
	}

	scratch := Empty()
	sub := scratch.CopyIn(g)

	owners := g.RuleOwners()
	order := make([]Token, len(owners))
	for i, nt := range owners {
		order[i] = sub.Of(nt)
	}

	finished := map[Token]Matrix{}
	var primes []Token
	for i, Ai := range order {
		alts := sub.ApplyMatrix(g.RuleMatrix(owners[i]))
		for j := 0; j < i; j++ {
			alts = substituteLeading(alts, order[j], finished[order[j]])
		}

		var alphas, betas Matrix
		for _, alt := range alts {
			if alt.Leads(Ai) {
				// A -> A adds nothing to the language
				if len(alt) > 1 {
					alphas = alphas.Append(alt[1:].Copy())
				}
			} else {
				betas = betas.Append(alt)
			}
		}

		if len(alphas) == 0 {
			finished[Ai] = betas
			continue
		}
		if len(betas) == 0 {
			tracer().Debugf("%s is only left recursive and derives nothing", scratch.Symbol(Ai))
			finished[Ai] = nil
			continue
		}

		prime := scratch.GetNonTerminal(scratch.FreshSymbol(scratch.Symbol(Ai)))
		tracer().Debugf("splitting left recursion of %s into %s", scratch.Symbol(Ai), scratch.Symbol(prime))

		var rewritten, primeAlts Matrix
		for _, beta := range betas {
			rewritten = rewritten.Append(append(beta.Copy(), prime))
		}
		for _, alpha := range alphas {
			primeAlts = primeAlts.Append(append(alpha.Copy(), prime))
		}
		primeAlts = append(primeAlts, Alternative{})

		finished[Ai] = rewritten
		finished[prime] = primeAlts
		primes = append(primes, prime)
	}

	survivors := pruneBarren(append(order, primes...), finished)
	if !slices.Contains(survivors, sub.Of(g.Start())) {
		return emptyLanguage(g), nil
	}
	out, _ := assemble(scratch, survivors, finished)
	return out, nil
}

// substituteLeading replaces every alternative of alts starting with lead by
// one alternative per element of with, followed by the rest of the original
// alternative.
func substituteLeading(alts Matrix, lead Token, with Matrix) Matrix {
	var out Matrix
	for _, alt := range alts {
		if !alt.Leads(lead) {
			out = out.Append(alt)
			continue
		}
		for _, delta := range with {
			replaced := append(delta.Copy(), alt[1:]...)
			out = out.Append(replaced)
		}
	}
	return out
}

func symbolStrings(syms []Symbol) []string {
	strs := make([]string, len(syms))
	for i := range syms {
		strs[i] = string(syms[i])
	}
	return strs
}
