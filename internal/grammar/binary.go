package grammar

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// This file contains the format for binary snapshots of grammars. A snapshot
// is the magic string, the registry entries other than RuleSep, then the
// rules; every rule is a nested binary value.

const snapshotMagic = "GNORM-GRAMMAR/1"

type ruleEntry struct {
	nt   Token
	body []Token
}

func (r ruleEntry) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(int(r.nt))...)
	data = append(data, rezi.EncInt(len(r.body))...)
	for _, tok := range r.body {
		data = append(data, rezi.EncInt(int(tok))...)
	}

	return data, nil
}

func (r *ruleEntry) UnmarshalBinary(data []byte) error {
	var err error
	var n, bytesRead int

	n, bytesRead, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("nonterminal: %w", err)
	}
	data = data[bytesRead:]
	r.nt = Token(n)

	var count int
	count, bytesRead, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("body length: %w", err)
	}
	data = data[bytesRead:]
	if count < 0 {
		return fmt.Errorf("body length < 0")
	}

	r.body = make([]Token, count)
	for i := 0; i < count; i++ {
		n, bytesRead, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("body token %d: %w", i, err)
		}
		data = data[bytesRead:]
		r.body[i] = Token(n)
	}

	return nil
}

// MarshalBinary encodes the grammar as a binary snapshot. Tokens are kept as
// they are.
func (g Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(snapshotMagic)...)

	var entries []Token
	for _, tok := range g.tokens() {
		if tok != RuleSep {
			entries = append(entries, tok)
		}
	}
	data = append(data, rezi.EncInt(len(entries))...)
	for _, tok := range entries {
		data = append(data, rezi.EncInt(int(tok))...)
		data = append(data, rezi.EncString(string(g.Symbol(tok)))...)
	}

	owners := g.RuleOwners()
	data = append(data, rezi.EncInt(len(owners))...)
	for _, nt := range owners {
		data = append(data, rezi.EncBinary(ruleEntry{nt: nt, body: g.Rule(nt)})...)
	}

	return data, nil
}

// UnmarshalBinary replaces the contents of g with the grammar in a snapshot
// made by MarshalBinary. On error g is left unchanged.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	var err error
	var bytesRead int
	var magic string

	magic, bytesRead, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("header: %w", err)
	}
	if magic != snapshotMagic {
		return fmt.Errorf("not a grammar snapshot")
	}
	data = data[bytesRead:]

	decoded := Empty()

	var count int
	count, bytesRead, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("symbol count: %w", err)
	}
	data = data[bytesRead:]

	for i := 0; i < count; i++ {
		var n int
		var sym string

		n, bytesRead, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("symbol %d: token: %w", i, err)
		}
		data = data[bytesRead:]

		sym, bytesRead, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("symbol %d: %w", i, err)
		}
		data = data[bytesRead:]

		tok := Token(n)
		if tok == RuleSep {
			return fmt.Errorf("symbol %d: token 0 is reserved", i)
		}
		if decoded.UsingSymbol(Symbol(sym)) {
			return fmt.Errorf("symbol %q is registered twice", sym)
		}
		if _, taken := decoded.LookupSymbol(tok); taken {
			return fmt.Errorf("token %d is registered twice", n)
		}
		decoded.bind(tok, Symbol(sym))
	}

	count, bytesRead, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[bytesRead:]

	for i := 0; i < count; i++ {
		var r ruleEntry
		bytesRead, err = rezi.DecBinary(data, &r)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		data = data[bytesRead:]

		if !r.nt.IsNonTerminal() {
			return fmt.Errorf("rule %d: owner %d is not a nonterminal", i, r.nt)
		}
		if _, ok := decoded.LookupSymbol(r.nt); !ok {
			return fmt.Errorf("rule %d: owner %d is not registered", i, r.nt)
		}
		for _, tok := range r.body {
			if _, ok := decoded.LookupSymbol(tok); !ok {
				return fmt.Errorf("rule %d: token %d is not registered", i, tok)
			}
		}
		decoded.SetRule(r.nt, r.body)
	}

	*g = decoded
	return nil
}
