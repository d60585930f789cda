/*
Package grammar models context-free grammars as a registry of tokens and
symbols plus a store of rules, and implements the classical normalization
transforms over them.

Every symbol of a grammar is bound to a Token. Nonterminal tokens are positive
and are allocated upward from 1, terminal tokens are negative and are
allocated downward from -1, and the token 0 is RuleSep, the separator between
the alternatives of a rule. A rule is stored as one flat token sequence:

	E --> E + T | T    is stored as    1 -1 2 0 2

and RuleMatrix decomposes it back into its alternatives.

The transforms (RemoveEpsilon, RemoveUnitProductions, RemoveUnreachables,
RemoveLeftRecursion and their composition MakeProperForm) never modify the
Grammar they are given. Each builds and returns a new Grammar. Tokens are not
stable across transforms; symbols are. A transform copying a symbol into its
output uses whatever token the output hands back for it, see
Grammar.AddNonTerminal.

Cycle detection and left-recursion elimination enumerate alternatives and are
worst-case exponential in the number of alternatives per nonterminal. They
are bounded by the size of the grammar and are not time-limited.
*/
package grammar

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'gnorm.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("gnorm.grammar")
}
