package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
)

// Grammar is a context-free grammar held as a registry binding every token to
// its symbol and a rule store binding every nonterminal to its flat rule body.
// Both are kept token-ascending; that order is the canonical order of
// nonterminals used by the transforms.
//
// The zero value is an empty grammar without the RuleSep registration; it is
// usable but Empty should be preferred. A Grammar value shares its storage
// with its copies made by assignment; use Copy for an independent duplicate.
type Grammar struct {
	symbols *treemap.Map // Token -> Symbol
	rules   *treemap.Map // Token -> []Token
	byName  map[Symbol]Token
}

func tokenComparator(a, b interface{}) int {
	ta, tb := a.(Token), b.(Token)
	switch {
	case ta.Less(tb):
		return -1
	case tb.Less(ta):
		return 1
	default:
		return 0
	}
}

// Empty returns a grammar holding nothing but the registration of RuleSep.
func Empty() Grammar {
	g := Grammar{}
	g.init()
	return g
}

func (g *Grammar) init() {
	if g.symbols == nil {
		g.symbols = treemap.NewWith(tokenComparator)
		g.rules = treemap.NewWith(tokenComparator)
		g.byName = map[Symbol]Token{}
		g.bind(RuleSep, RuleSepSymbol)
	}
}

func (g *Grammar) bind(tok Token, sym Symbol) {
	g.symbols.Put(tok, sym)
	g.byName[sym] = tok
}

// Copy returns a deep copy of the grammar. Tokens are preserved.
func (g Grammar) Copy() Grammar {
	g2 := Empty()
	sub := g2.CopyIn(g)
	for _, nt := range g.RuleOwners() {
		g2.SetRule(sub.Of(nt), Encode(sub.ApplyMatrix(g.RuleMatrix(nt))))
	}
	return g2
}

// LookupSymbol returns the symbol bound to tok.
func (g Grammar) LookupSymbol(tok Token) (Symbol, bool) {
	if g.symbols == nil {
		if tok == RuleSep {
			return RuleSepSymbol, true
		}
		return "", false
	}
	v, ok := g.symbols.Get(tok)
	if !ok {
		return "", false
	}
	return v.(Symbol), true
}

// LookupToken returns the token bound to sym.
func (g Grammar) LookupToken(sym Symbol) (Token, bool) {
	if g.byName == nil {
		if sym == RuleSepSymbol {
			return RuleSep, true
		}
		return RuleSep, false
	}
	tok, ok := g.byName[sym]
	return tok, ok
}

// Symbol returns the symbol bound to tok. It panics if tok is not registered;
// a rule referring to an unregistered token is a defect in whatever built the
// grammar.
func (g Grammar) Symbol(tok Token) Symbol {
	sym, ok := g.LookupSymbol(tok)
	if !ok {
		tracer().Errorf("lookup of unregistered token %d", tok)
		panic(fmt.Sprintf("token %d is not registered in the grammar", tok))
	}
	return sym
}

// UsingSymbol returns whether sym is bound to any token.
func (g Grammar) UsingSymbol(sym Symbol) bool {
	_, ok := g.LookupToken(sym)
	return ok
}

// IsNonTerminalSymbol returns whether sym is registered as a nonterminal.
func (g Grammar) IsNonTerminalSymbol(sym Symbol) bool {
	tok, ok := g.LookupToken(sym)
	return ok && tok.IsNonTerminal()
}

// IsTerminalSymbol returns whether sym is registered as a terminal.
func (g Grammar) IsTerminalSymbol(sym Symbol) bool {
	tok, ok := g.LookupToken(sym)
	return ok && tok.IsTerminal()
}

func (g Grammar) tokens() []Token {
	if g.symbols == nil {
		return []Token{RuleSep}
	}
	keys := g.symbols.Keys()
	toks := make([]Token, len(keys))
	for i := range keys {
		toks[i] = keys[i].(Token)
	}
	return toks
}

// NonTerminals returns every registered nonterminal token, ascending.
func (g Grammar) NonTerminals() []Token {
	var nts []Token
	for _, tok := range g.tokens() {
		if tok.IsNonTerminal() {
			nts = append(nts, tok)
		}
	}
	return nts
}

// Terminals returns every registered terminal token, ascending. Since
// terminals are allocated downward, this lists the most recently allocated
// terminal first.
func (g Grammar) Terminals() []Token {
	var ts []Token
	for _, tok := range g.tokens() {
		if tok.IsTerminal() {
			ts = append(ts, tok)
		}
	}
	return ts
}

// NonTerminalKeys returns the symbols of NonTerminals in the same order.
func (g Grammar) NonTerminalKeys() []Symbol {
	return g.symbolsOf(g.NonTerminals())
}

// TerminalKeys returns the symbols of Terminals in the same order.
func (g Grammar) TerminalKeys() []Symbol {
	return g.symbolsOf(g.Terminals())
}

// Symbols returns the symbols bound to toks, in order.
func (g Grammar) Symbols(toks []Token) []Symbol {
	return g.symbolsOf(toks)
}

func (g Grammar) symbolsOf(toks []Token) []Symbol {
	syms := make([]Symbol, len(toks))
	for i := range toks {
		syms[i] = g.Symbol(toks[i])
	}
	return syms
}

// NonTerminalCount returns the number of registered nonterminals.
func (g Grammar) NonTerminalCount() int {
	return len(g.NonTerminals())
}

// TerminalCount returns the number of registered terminals.
func (g Grammar) TerminalCount() int {
	return len(g.Terminals())
}

// Start returns the canonical start symbol's token, which is the lowest
// registered nonterminal. RuleSep is returned if there are no nonterminals.
func (g Grammar) Start() Token {
	nts := g.NonTerminals()
	if len(nts) == 0 {
		return RuleSep
	}
	return nts[0]
}

// NextNonTerminal returns the token the next allocated nonterminal would get.
func (g Grammar) NextNonTerminal() Token {
	toks := g.tokens()
	last := toks[len(toks)-1]
	if !last.IsNonTerminal() {
		return RuleSep.above()
	}
	return last.above()
}

// NextTerminal returns the token the next allocated terminal would get.
func (g Grammar) NextTerminal() Token {
	first := g.tokens()[0]
	if !first.IsTerminal() {
		return RuleSep.below()
	}
	return first.below()
}

// GetNonTerminal returns the token bound to sym, allocating a new nonterminal
// token for it if it is not yet registered. A symbol already registered as a
// terminal keeps its terminal token.
func (g *Grammar) GetNonTerminal(sym Symbol) Token {
	g.init()
	if tok, ok := g.byName[sym]; ok {
		return tok
	}
	tok := g.NextNonTerminal()
	g.bind(tok, sym)
	return tok
}

// GetTerminal returns the token bound to sym, allocating a new terminal token
// for it if it is not yet registered. A symbol already registered as a
// nonterminal keeps its nonterminal token.
func (g *Grammar) GetTerminal(sym Symbol) Token {
	g.init()
	if tok, ok := g.byName[sym]; ok {
		return tok
	}
	tok := g.NextTerminal()
	g.bind(tok, sym)
	return tok
}

// AddNonTerminal registers sym under tok if it can and returns the token sym
// ends up bound to, which callers must use from then on:
//
//   - if sym is already registered, its existing token is returned;
//   - if tok is a free nonterminal token, sym is bound to it;
//   - otherwise a new nonterminal token is allocated for sym.
//
// The existing binding of sym is checked before whether tok is free, so a
// symbol is never bound to two tokens. A registered symbol asked for under a
// free token keeps its old token and tok stays free.
func (g *Grammar) AddNonTerminal(sym Symbol, tok Token) Token {
	return g.add(sym, tok, Token.IsNonTerminal, g.GetNonTerminal)
}

// AddTerminal is AddNonTerminal for terminal tokens.
func (g *Grammar) AddTerminal(sym Symbol, tok Token) Token {
	return g.add(sym, tok, Token.IsTerminal, g.GetTerminal)
}

func (g *Grammar) add(sym Symbol, tok Token, polarity func(Token) bool, alloc func(Symbol) Token) Token {
	g.init()
	if existing, ok := g.byName[sym]; ok {
		return existing
	}
	if _, taken := g.symbols.Get(tok); !taken && polarity(tok) {
		g.bind(tok, sym)
		return tok
	}
	return alloc(sym)
}

// FreshSymbol returns an unused symbol derived from base by adding primes:
// "<E'>", "<E''>" and so on.
func (g Grammar) FreshSymbol(base Symbol) Symbol {
	primes := "'"
	for {
		candidate := Symbol("<" + base.Name() + primes + ">")
		if !g.UsingSymbol(candidate) {
			return candidate
		}
		primes += "'"
	}
}

// RuleOwners returns every nonterminal that has a rule, ascending.
func (g Grammar) RuleOwners() []Token {
	if g.rules == nil {
		return nil
	}
	keys := g.rules.Keys()
	owners := make([]Token, len(keys))
	for i := range keys {
		owners[i] = keys[i].(Token)
	}
	return owners
}

// HasRule returns whether nt has a rule, possibly a rule with only an empty
// alternative.
func (g Grammar) HasRule(nt Token) bool {
	if g.rules == nil {
		return false
	}
	_, ok := g.rules.Get(nt)
	return ok
}

// Rule returns a copy of the flat rule body of nt, or nil if it has none.
func (g Grammar) Rule(nt Token) []Token {
	if g.rules == nil {
		return nil
	}
	v, ok := g.rules.Get(nt)
	if !ok {
		return nil
	}
	body := v.([]Token)
	cp := make([]Token, len(body))
	copy(cp, body)
	return cp
}

// RuleMatrix returns the alternatives of the rule of nt. A nonterminal with no
// rule yields an empty matrix.
func (g Grammar) RuleMatrix(nt Token) Matrix {
	if !g.HasRule(nt) {
		return Matrix{}
	}
	return Decode(g.Rule(nt))
}

// AddRule stores body as the rule of sym, registering sym as a nonterminal if
// needed. If sym already has a rule, body is appended to it as further
// alternatives. It returns false, and changes nothing, if sym is a registered
// terminal.
func (g *Grammar) AddRule(sym Symbol, body []Token) bool {
	g.init()
	if g.IsTerminalSymbol(sym) {
		return false
	}
	nt := g.GetNonTerminal(sym)

	if g.HasRule(nt) {
		existing := g.Rule(nt)
		existing = append(existing, RuleSep)
		body = append(existing, body...)
	}
	g.SetRule(nt, body)
	return true
}

// SetRule replaces the rule of nt with body. nt must be a registered
// nonterminal.
func (g *Grammar) SetRule(nt Token, body []Token) {
	g.init()
	if !nt.IsNonTerminal() {
		panic(fmt.Sprintf("cannot set rule of non-nonterminal token %d", nt))
	}
	g.Symbol(nt)
	cp := make([]Token, len(body))
	copy(cp, body)
	g.rules.Put(nt, cp)
}

// SetMatrix replaces the rule of nt with the given alternatives. An empty
// matrix removes the rule instead, as it cannot be told apart from a single
// empty alternative once encoded.
func (g *Grammar) SetMatrix(nt Token, m Matrix) {
	if len(m) == 0 {
		g.RemoveRule(nt)
		return
	}
	g.SetRule(nt, Encode(m))
}

// RemoveRule deletes the rule of nt. The registration of nt is kept.
func (g *Grammar) RemoveRule(nt Token) {
	if g.rules == nil {
		return
	}
	g.rules.Remove(nt)
}

// InSomeProduction returns whether tok occurs in the body of any rule.
func (g Grammar) InSomeProduction(tok Token) bool {
	for _, nt := range g.RuleOwners() {
		for _, t := range g.Rule(nt) {
			if t == tok {
				return true
			}
		}
	}
	return false
}

// Validate checks that every token used in a rule body is registered and
// that every nonterminal used in a body has a rule.
func (g Grammar) Validate() error {
	for _, nt := range g.RuleOwners() {
		for _, tok := range g.Rule(nt) {
			if _, ok := g.LookupSymbol(tok); !ok {
				return fmt.Errorf("rule of %d refers to unregistered token %d", nt, tok)
			}
			if tok.IsNonTerminal() && !g.HasRule(tok) {
				return fmt.Errorf("rule of %s refers to %s, which has no rule", g.Symbol(nt), g.Symbol(tok))
			}
		}
	}
	return nil
}
