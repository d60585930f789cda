package grammar

import (
	"strings"
	"testing"

	"github.com/dekarrin/rezi"
	"github.com/stretchr/testify/assert"
)

func Test_Grammar_String(t *testing.T) {
	assert := assert.New(t)

	g := setupGrammar([]string{"E -> E + T | T", "T -> a"})

	expect := "Symbol mapping (Negative = terminal):\n" +
		"-2 -->  a\n" +
		"-1 -->  +\n" +
		" 0 -->  |\n" +
		" 1 -->  E\n" +
		" 2 -->  T\n" +
		"Rules:\n" +
		" 1 -->  1 -1  2  |  2 \n" +
		" 2 --> -2 \n"

	assert.Equal(expect, g.String())
}

func Test_Grammar_Pretty(t *testing.T) {
	testCases := []struct {
		name   string
		rules  []string
		expect string
	}{
		{
			name:   "empty grammar",
			expect: "",
		},
		{
			name:   "expression grammar",
			rules:  []string{"E -> E + T | T", "T -> a"},
			expect: "E --> E + T | T\nT --> a\n",
		},
		{
			name:   "empty alternative and bracketed names",
			rules:  []string{"<expr> -> ε | a <expr>"},
			expect: "<expr> --> ε | a <expr>\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := setupGrammar(tc.rules)

			assert.Equal(tc.expect, g.Pretty())
		})
	}
}

func Test_Grammar_Table(t *testing.T) {
	assert := assert.New(t)

	g := setupGrammar([]string{"E -> E + T | T", "T -> a"})

	actual := g.Table(80)

	assert.Contains(actual, "TOKEN")
	assert.Contains(actual, "ALTERNATIVES")
	assert.Contains(actual, "separator")

	var eRow string
	for _, line := range strings.Split(actual, "\n") {
		if strings.Contains(line, "E + T | T") {
			eRow = line
		}
	}
	assert.Contains(eRow, "nonterminal")
}

func Test_Grammar_Binary(t *testing.T) {
	testCases := []struct {
		name  string
		rules []string
	}{
		{
			name: "empty grammar",
		},
		{
			name:  "expression grammar",
			rules: []string{"E -> E + T | T", "T -> a"},
		},
		{
			name:  "empty alternatives",
			rules: []string{"<S'> -> S | ε", "S -> a S | ε"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := setupGrammar(tc.rules)

			data, err := g.MarshalBinary()
			if !assert.NoError(err) {
				return
			}

			var actual Grammar
			err = actual.UnmarshalBinary(data)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(g.String(), actual.String())
			assert.Equal(g.RuleOwners(), actual.RuleOwners())
		})
	}
}

func Test_Grammar_UnmarshalBinary_Errors(t *testing.T) {
	valid, _ := setupGrammar([]string{"S -> a S | b"}).MarshalBinary()

	var dupeSymbol []byte
	dupeSymbol = append(dupeSymbol, rezi.EncString(snapshotMagic)...)
	dupeSymbol = append(dupeSymbol, rezi.EncInt(2)...)
	dupeSymbol = append(dupeSymbol, rezi.EncInt(1)...)
	dupeSymbol = append(dupeSymbol, rezi.EncString("S")...)
	dupeSymbol = append(dupeSymbol, rezi.EncInt(2)...)
	dupeSymbol = append(dupeSymbol, rezi.EncString("S")...)
	dupeSymbol = append(dupeSymbol, rezi.EncInt(0)...)

	var unregistered []byte
	unregistered = append(unregistered, rezi.EncString(snapshotMagic)...)
	unregistered = append(unregistered, rezi.EncInt(1)...)
	unregistered = append(unregistered, rezi.EncInt(1)...)
	unregistered = append(unregistered, rezi.EncString("S")...)
	unregistered = append(unregistered, rezi.EncInt(1)...)
	unregistered = append(unregistered, rezi.EncBinary(ruleEntry{nt: 1, body: []Token{-3}})...)

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "no data", data: nil},
		{name: "wrong header", data: rezi.EncString("something else")},
		{name: "truncated", data: valid[:len(valid)-3]},
		{name: "symbol registered twice", data: dupeSymbol},
		{name: "rule uses unregistered token", data: unregistered},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := setupGrammar([]string{"A -> b"})
			before := g.String()

			err := g.UnmarshalBinary(tc.data)

			assert.Error(err)
			assert.Equal(before, g.String(), "grammar must be unchanged on error")
		})
	}
}

func Test_Grammar_Fingerprint(t *testing.T) {
	assert := assert.New(t)

	g := setupGrammar([]string{"E -> E + T | T", "T -> a"})

	// same rules, different tokens and alternative order
	renumbered := Empty()
	a := renumbered.GetTerminal("a")
	plus := renumbered.GetTerminal("+")
	renumbered.AddNonTerminal("T", 5)
	renumbered.AddNonTerminal("E", 4)
	renumbered.SetRule(5, []Token{a})
	renumbered.SetRule(4, Encode(Matrix{{5}, {4, plus, 5}}))

	other := setupGrammar([]string{"E -> E - T | T", "T -> a"})

	fg, err := g.Fingerprint()
	assert.NoError(err)
	fr, err := renumbered.Fingerprint()
	assert.NoError(err)
	fo, err := other.Fingerprint()
	assert.NoError(err)

	assert.Equal(fg, fr)
	assert.NotEqual(fg, fo)

	equal, err := StructurallyEqual(g, renumbered)
	assert.NoError(err)
	assert.True(equal)
}
