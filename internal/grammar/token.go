package grammar

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/slices"
)

// Token is the internal representation of a nonterminal, a terminal, or the
// rule separator. Tokens are compared and looked up; only the allocation
// helpers in this package do arithmetic on them.
type Token int

// Symbol is the printable version of a nonterminal, a terminal, or the rule
// separator. It is either a single character or a bracketed "<name>".
type Symbol string

const (
	// RuleSep separates the alternatives of a rule in its flat encoding.
	RuleSep Token = 0

	// RuleSepSymbol is the symbol bound to RuleSep in every grammar.
	RuleSepSymbol Symbol = "|"
)

// IsNonTerminal returns whether t denotes a nonterminal.
func (t Token) IsNonTerminal() bool {
	return t > RuleSep
}

// IsTerminal returns whether t denotes a terminal.
func (t Token) IsTerminal() bool {
	return t < RuleSep
}

// Less returns whether t orders before o.
func (t Token) Less(o Token) bool {
	return t < o
}

func (t Token) String() string {
	return fmt.Sprintf("%d", int(t))
}

// above returns the token allocated after t for nonterminals.
func (t Token) above() Token {
	return t + 1
}

// below returns the token allocated after t for terminals.
func (t Token) below() Token {
	return t - 1
}

// IsBracketed returns whether the symbol is of the "<name>" form.
func (s Symbol) IsBracketed() bool {
	return len(s) >= 3 && strings.HasPrefix(string(s), "<") && strings.HasSuffix(string(s), ">")
}

// Name returns the symbol without brackets.
func (s Symbol) Name() string {
	if s.IsBracketed() {
		return string(s[1 : len(s)-1])
	}
	return string(s)
}

// IsUpper returns whether the symbol is a single upper-case character, the
// legacy way of writing a nonterminal.
func (s Symbol) IsUpper() bool {
	r, size := utf8.DecodeRuneInString(string(s))
	return size == len(s) && unicode.IsUpper(r)
}

// IsLower returns whether the symbol is a single lower-case character, the
// legacy way of writing a terminal.
func (s Symbol) IsLower() bool {
	r, size := utf8.DecodeRuneInString(string(s))
	return size == len(s) && unicode.IsLower(r)
}

func (s Symbol) String() string {
	return string(s)
}

// Alternative is a single right-hand side of a rule. An empty Alternative is
// an epsilon production.
type Alternative []Token

// Copy returns a deep-copied duplicate of this alternative.
func (a Alternative) Copy() Alternative {
	a2 := make(Alternative, len(a))
	copy(a2, a)
	return a2
}

// Equal returns whether the two alternatives hold the same tokens in the same
// order.
func (a Alternative) Equal(o Alternative) bool {
	return slices.Equal(a, o)
}

// IsEmpty returns whether this is an epsilon alternative.
func (a Alternative) IsEmpty() bool {
	return len(a) == 0
}

// IsUnit returns whether this alternative consists of exactly one nonterminal.
func (a Alternative) IsUnit() bool {
	return len(a) == 1 && a[0].IsNonTerminal()
}

// Leads returns whether the alternative begins with tok.
func (a Alternative) Leads(tok Token) bool {
	return len(a) > 0 && a[0] == tok
}

// Has returns whether the alternative contains tok anywhere.
func (a Alternative) Has(tok Token) bool {
	return slices.Contains(a, tok)
}

// Matrix is a rule decomposed into its alternatives.
type Matrix []Alternative

// Copy returns a deep-copied duplicate of the matrix.
func (m Matrix) Copy() Matrix {
	m2 := make(Matrix, len(m))
	for i := range m {
		m2[i] = m[i].Copy()
	}
	return m2
}

// Contains returns whether the matrix already has an alternative equal to a.
func (m Matrix) Contains(a Alternative) bool {
	return slices.IndexFunc(m, a.Equal) != -1
}

// HasEmpty returns whether any alternative is empty.
func (m Matrix) HasEmpty() bool {
	return slices.IndexFunc(m, Alternative.IsEmpty) != -1
}

// OnlyEmpty returns whether the matrix has at least one alternative and all of
// them are empty.
func (m Matrix) OnlyEmpty() bool {
	if len(m) == 0 {
		return false
	}
	for i := range m {
		if !m[i].IsEmpty() {
			return false
		}
	}
	return true
}

// WithoutEmpty returns the matrix with every empty alternative removed.
func (m Matrix) WithoutEmpty() Matrix {
	var kept Matrix
	for i := range m {
		if !m[i].IsEmpty() {
			kept = append(kept, m[i])
		}
	}
	return kept
}

// Append adds a to the matrix unless an equal alternative is already present.
func (m Matrix) Append(a Alternative) Matrix {
	if m.Contains(a) {
		return m
	}
	return append(m, a)
}

// Encode flattens the matrix into a rule body, placing RuleSep between each
// pair of alternatives.
func Encode(m Matrix) []Token {
	var flat []Token
	for i := range m {
		if i > 0 {
			flat = append(flat, RuleSep)
		}
		flat = append(flat, m[i]...)
	}
	return flat
}

// Decode splits a flat rule body on RuleSep. It is the inverse of Encode; an
// empty body decodes to a single empty alternative.
func Decode(flat []Token) Matrix {
	m := Matrix{Alternative{}}
	for _, tok := range flat {
		if tok == RuleSep {
			m = append(m, Alternative{})
		} else {
			m[len(m)-1] = append(m[len(m)-1], tok)
		}
	}
	return m
}

// Substitution maps the tokens a source grammar used to the tokens a derived
// grammar assigned to the same symbols. It is returned by every copy-in
// operation and must be applied to everything built from the source rules.
type Substitution map[Token]Token

// Of returns the token tok was remapped to. Tokens the substitution does not
// mention, RuleSep included, map to themselves.
func (s Substitution) Of(tok Token) Token {
	if mapped, ok := s[tok]; ok {
		return mapped
	}
	return tok
}

// Apply returns a copy of the alternative with every token remapped.
func (s Substitution) Apply(a Alternative) Alternative {
	out := make(Alternative, len(a))
	for i := range a {
		out[i] = s.Of(a[i])
	}
	return out
}

// ApplyMatrix returns a copy of the matrix with every token remapped.
func (s Substitution) ApplyMatrix(m Matrix) Matrix {
	out := make(Matrix, len(m))
	for i := range m {
		out[i] = s.Apply(m[i])
	}
	return out
}

// Remapped returns the source tokens whose token changed, ascending.
func (s Substitution) Remapped() []Token {
	var changed []Token
	for from, to := range s {
		if from != to {
			changed = append(changed, from)
		}
	}
	slices.Sort(changed)
	return changed
}
