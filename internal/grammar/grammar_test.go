package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func Test_Grammar_Empty(t *testing.T) {
	assert := assert.New(t)

	g := Empty()

	assert.Equal(RuleSepSymbol, g.Symbol(RuleSep))
	assert.Empty(g.NonTerminals())
	assert.Empty(g.Terminals())
	assert.Empty(g.RuleOwners())
	assert.Equal(RuleSep, g.Start())
	assert.Equal(Token(1), g.NextNonTerminal())
	assert.Equal(Token(-1), g.NextTerminal())
}

func Test_Grammar_ZeroValue(t *testing.T) {
	assert := assert.New(t)

	var g Grammar

	assert.Equal(RuleSepSymbol, g.Symbol(RuleSep))
	assert.Empty(g.RuleMatrix(1))
	assert.False(g.HasEmptyProduction(1))
	assert.Nil(g.CyclicPath())

	assert.Equal(Token(1), g.GetNonTerminal("S"))
	assert.Equal(Token(-1), g.GetTerminal("a"))
	assert.True(g.AddRule("S", []Token{-1}))
	assert.Equal(Matrix{{-1}}, g.RuleMatrix(1))
}

func Test_Grammar_GetNonTerminal_GetTerminal(t *testing.T) {
	assert := assert.New(t)

	g := Empty()

	S := g.GetNonTerminal("S")
	assert.Equal(Token(1), S)
	assert.Equal(S, g.GetNonTerminal("S"), "registration must be idempotent")

	A := g.GetNonTerminal("<expr>")
	assert.Equal(Token(2), A)

	a := g.GetTerminal("a")
	b := g.GetTerminal("b")
	assert.Equal(Token(-1), a)
	assert.Equal(Token(-2), b)
	assert.Equal(a, g.GetTerminal("a"))

	// polarity asked for is not authoritative
	assert.Equal(a, g.GetNonTerminal("a"))
	assert.Equal(S, g.GetTerminal("S"))

	assert.Equal([]Token{1, 2}, g.NonTerminals())
	assert.Equal([]Token{-2, -1}, g.Terminals())
	assert.Equal([]Symbol{"S", "<expr>"}, g.NonTerminalKeys())
	assert.Equal([]Symbol{"b", "a"}, g.TerminalKeys())
	assert.Equal(2, g.NonTerminalCount())
	assert.Equal(2, g.TerminalCount())
	assert.True(g.IsNonTerminalSymbol("<expr>"))
	assert.True(g.IsTerminalSymbol("b"))
	assert.False(g.IsTerminalSymbol("S"))
	assert.False(g.UsingSymbol("c"))
}

func Test_Grammar_AddNonTerminal(t *testing.T) {
	testCases := []struct {
		name   string
		sym    Symbol
		tok    Token
		expect Token
	}{
		{
			name:   "free token is used",
			sym:    "X",
			tok:    7,
			expect: 7,
		},
		{
			name:   "same binding is kept",
			sym:    "A",
			tok:    1,
			expect: 1,
		},
		{
			name:   "token bound elsewhere gives the existing token of the symbol",
			sym:    "B",
			tok:    1,
			expect: 2,
		},
		{
			name:   "token bound elsewhere and symbol new allocates",
			sym:    "C",
			tok:    1,
			expect: 3,
		},
		{
			name:   "registered symbol keeps its token even if the asked one is free",
			sym:    "A",
			tok:    9,
			expect: 1,
		},
		{
			name:   "terminal token is not used for a nonterminal",
			sym:    "C",
			tok:    -5,
			expect: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := Empty()
			g.GetNonTerminal("A")
			g.GetNonTerminal("B")

			actual := g.AddNonTerminal(tc.sym, tc.tok)

			assert.Equal(tc.expect, actual)
			assert.Equal(tc.sym, g.Symbol(actual))
		})
	}
}

func Test_Grammar_AddTerminal(t *testing.T) {
	assert := assert.New(t)

	g := Empty()
	g.GetTerminal("a")

	assert.Equal(Token(-4), g.AddTerminal("b", -4))
	assert.Equal(Token(-1), g.AddTerminal("a", -4))
	assert.Equal(Token(-5), g.AddTerminal("c", -1))
	assert.Equal(Token(-6), g.AddTerminal("d", 3))
	assert.Equal(Token(-7), g.NextTerminal())
}

func Test_Grammar_Symbol_Unregistered(t *testing.T) {
	assert := assert.New(t)

	g := Empty()

	assert.Panics(func() { g.Symbol(12) })

	_, ok := g.LookupSymbol(12)
	assert.False(ok)
}

func Test_Grammar_FreshSymbol(t *testing.T) {
	assert := assert.New(t)

	g := Empty()
	g.GetNonTerminal("E")

	first := g.FreshSymbol("E")
	assert.Equal(Symbol("<E'>"), first)

	g.GetNonTerminal(first)
	assert.Equal(Symbol("<E''>"), g.FreshSymbol("E"))
	assert.Equal(Symbol("<E''>"), g.FreshSymbol("<E>"))
	assert.Equal(Symbol("<expr'>"), g.FreshSymbol("<expr>"))
}

func Test_Grammar_RuleMatrix_RoundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		alts   Matrix
		expect []Token
	}{
		{
			name:   "single alternative",
			alts:   Matrix{{-1, 1}},
			expect: []Token{-1, 1},
		},
		{
			name:   "several alternatives",
			alts:   Matrix{{1, -1, 2}, {2}},
			expect: []Token{1, -1, 2, 0, 2},
		},
		{
			name:   "leading empty alternative",
			alts:   Matrix{{}, {-1, 1}},
			expect: []Token{0, -1, 1},
		},
		{
			name:   "empty alternative in the middle",
			alts:   Matrix{{-1}, {}, {-2}},
			expect: []Token{-1, 0, 0, -2},
		},
		{
			name:   "trailing empty alternative",
			alts:   Matrix{{-1}, {}},
			expect: []Token{-1, 0},
		},
		{
			name:   "only an empty alternative",
			alts:   Matrix{{}},
			expect: []Token{},
		},
		{
			name:   "two empty alternatives",
			alts:   Matrix{{}, {}},
			expect: []Token{0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := Empty()
			S := g.GetNonTerminal("S")
			g.GetNonTerminal("T")
			g.GetTerminal("a")
			g.GetTerminal("b")

			flat := Encode(tc.alts)
			assert.Equal(tc.expect, append([]Token{}, flat...))

			g.SetRule(S, flat)
			assert.Equal(tc.alts, g.RuleMatrix(S))
		})
	}
}

func Test_Grammar_RuleMatrix_Unknown(t *testing.T) {
	assert := assert.New(t)

	g := setupGrammar([]string{"S -> a"})

	assert.Equal(Matrix{}, g.RuleMatrix(5))
	assert.Nil(g.Rule(5))
}

func Test_Grammar_AddRule(t *testing.T) {
	assert := assert.New(t)

	g := Empty()
	a := g.GetTerminal("a")
	b := g.GetTerminal("b")

	assert.True(g.AddRule("S", []Token{a}))
	S, _ := g.LookupToken("S")
	assert.True(g.AddRule("S", []Token{b, S}))

	assert.Equal([]Token{a, RuleSep, b, S}, g.Rule(S))
	assert.Equal(Matrix{{a}, {b, S}}, g.RuleMatrix(S))

	assert.False(g.AddRule("a", []Token{b}), "terminal must not get a rule")
	assert.False(g.HasRule(a))

	assert.True(g.InSomeProduction(S))
	assert.True(g.InSomeProduction(b))
	assert.False(g.InSomeProduction(RuleSep + 7))
}

func Test_Grammar_SetMatrix_Empty(t *testing.T) {
	assert := assert.New(t)

	g := setupGrammar([]string{"S -> a | A", "A -> b"})
	A, _ := g.LookupToken("A")

	g.SetMatrix(A, Matrix{})

	assert.False(g.HasRule(A))
	assert.True(g.UsingSymbol("A"), "registration is kept")
}

func Test_Grammar_Copy(t *testing.T) {
	assert := assert.New(t)

	g := setupGrammar([]string{"S -> a S | b"})
	cp := g.Copy()

	assert.Equal(g.String(), cp.String())

	S, _ := cp.LookupToken("S")
	cp.AddRule("S", []Token{})
	assert.False(g.HasEmptyProduction(S), "copy must not share storage")
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		rules     []string
		expectErr bool
	}{
		{
			name: "empty grammar",
		},
		{
			name:  "all nonterminals defined",
			rules: []string{"S -> a A", "A -> b"},
		},
		{
			name:      "nonterminal with no rule",
			rules:     []string{"S -> a A"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := setupGrammar(tc.rules)

			err := g.Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Grammar_HasEmptyProduction(t *testing.T) {
	testCases := []struct {
		name   string
		body   []Token
		expect bool
	}{
		{name: "empty body", body: []Token{}, expect: true},
		{name: "no separator", body: []Token{-1, 1}, expect: false},
		{name: "separators between alternatives", body: []Token{-1, 0, 1, 0, -2}, expect: false},
		{name: "leading separator", body: []Token{0, -1}, expect: true},
		{name: "trailing separator", body: []Token{-1, 0}, expect: true},
		{name: "adjacent separators", body: []Token{-1, 0, 0, -2}, expect: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := Empty()
			S := g.GetNonTerminal("S")
			g.GetTerminal("a")
			g.GetTerminal("b")
			g.SetRule(S, tc.body)

			assert.Equal(tc.expect, g.HasEmptyProduction(S))
			assert.Equal(tc.expect, g.HasAnyEmptyProduction())
			assert.Equal(g.RuleMatrix(S).HasEmpty(), g.HasEmptyProduction(S))
		})
	}
}

func Test_Grammar_CyclicPath(t *testing.T) {
	testCases := []struct {
		name   string
		rules  []string
		expect []Symbol
	}{
		{
			name: "empty grammar",
		},
		{
			name: "unit production without a cycle",
			rules: []string{
				"E -> E + T | T",
				"T -> a",
			},
		},
		{
			name: "self loop is not a cycle",
			rules: []string{
				"S -> S | a",
			},
		},
		{
			name: "two nonterminals",
			rules: []string{
				"S -> A | a",
				"A -> S | b",
			},
			expect: []Symbol{"S", "A", "S"},
		},
		{
			name: "cycle not through the start",
			rules: []string{
				"S -> A | a",
				"A -> B | b",
				"B -> A | c",
			},
			expect: []Symbol{"S", "A", "B", "A"},
		},
		{
			name: "backtracks past a dead end",
			rules: []string{
				"S -> A | B",
				"A -> a",
				"B -> C | b",
				"C -> B",
			},
			expect: []Symbol{"S", "B", "C", "B"},
		},
		{
			name: "cycle found from a later start point",
			rules: []string{
				"S -> a A",
				"A -> B | a",
				"B -> A",
			},
			expect: []Symbol{"A", "B", "A"},
		},
		{
			name: "non-unit alternatives do not form a cycle",
			rules: []string{
				"S -> A a",
				"A -> S b | c",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			teardown := gotestingadapter.QuickConfig(t, "gnorm.grammar")
			defer teardown()

			assert := assert.New(t)

			g := setupGrammar(tc.rules)

			actual := g.CyclicPath()

			if len(tc.expect) == 0 {
				assert.Empty(actual)
				assert.False(g.HasAnyCycle())
				return
			}
			assert.Equal(tc.expect, g.Symbols(actual))
			assert.True(g.HasAnyCycle())
			assertValidWitness(assert, g, actual)
		})
	}
}

func assertValidWitness(assert *assert.Assertions, g Grammar, witness []Token) {
	for i := 0; i+1 < len(witness); i++ {
		from, to := witness[i], witness[i+1]
		assert.Truef(g.RuleMatrix(from).Contains(Alternative{to}), "%s has no unit alternative %s", g.Symbol(from), g.Symbol(to))
	}

	seen := map[Token]int{}
	repeated := false
	for _, nt := range witness {
		seen[nt]++
		if seen[nt] > 1 {
			repeated = true
		}
	}
	assert.True(repeated, "witness repeats no nonterminal")
}

func Test_Grammar_Reachable(t *testing.T) {
	testCases := []struct {
		name   string
		rules  []string
		expect []Symbol
	}{
		{
			name:   "empty grammar",
			expect: []Symbol{},
		},
		{
			name:   "all reachable",
			rules:  []string{"S -> a A", "A -> b B", "B -> S | c"},
			expect: []Symbol{"S", "A", "B"},
		},
		{
			name:   "some unreachable",
			rules:  []string{"S -> a A", "A -> b", "B -> c A", "C -> B"},
			expect: []Symbol{"S", "A"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := setupGrammar(tc.rules)

			actual := g.Reachable()

			assert.Equal(tc.expect, g.Symbols(actual))
		})
	}
}
