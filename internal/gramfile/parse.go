package gramfile

import (
	"unicode/utf8"

	"github.com/dekarrin/gnorm/internal/gramerr"
	"github.com/dekarrin/gnorm/internal/grammar"
)

// production is one rule as written, before any token is allocated.
type production struct {
	head lexeme
	alts [][]lexeme
}

type parser struct {
	lexemes []lexeme
	pos     int
}

func (p *parser) done() bool {
	return p.pos >= len(p.lexemes)
}

func (p *parser) next() lexeme {
	lx := p.lexemes[p.pos]
	p.pos++
	return lx
}

// Parse reads a grammar from its text form. Nothing is returned along with a
// *gramerr.ParseError.
//
// Symbols get their tokens in order of first mention, so the nonterminal on
// the left of the first production is the start symbol.
func Parse(text string) (grammar.Grammar, error) {
	lexemes, err := lex(text)
	if err != nil {
		return grammar.Grammar{}, err
	}

	p := &parser{lexemes: lexemes}
	var prods []production
	for !p.done() {
		lx := p.next()
		if lx.tt == tokEnd {
			continue
		}
		prod, err := p.production(lx)
		if err != nil {
			return grammar.Grammar{}, err
		}
		prods = append(prods, prod)
	}

	g, err := build(prods)
	if err != nil {
		return grammar.Grammar{}, err
	}
	tracer().Debugf("parsed %d production(s) into %d rule(s)", len(prods), len(g.RuleOwners()))
	return g, nil
}

// MustParse is Parse but panics on error.
func MustParse(text string) grammar.Grammar {
	g, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return g
}

func (p *parser) production(head lexeme) (production, error) {
	prod := production{head: head}

	switch head.tt {
	case tokName:
	case tokChar:
		if !grammar.Symbol(head.text).IsUpper() {
			return prod, gramerr.Parse(head.line, head.col,
				"Cannot use "+head.text+" as a nonterminal; nonterminals must be capitalized or written as <name>",
				"bad nonterminal "+head.text)
		}
	case tokBadName:
		return prod, badName(head)
	default:
		return prod, gramerr.Parsef(head.line, head.col, "Expected a nonterminal at the start of the rule but found %s", head.tt)
	}

	if p.done() {
		return prod, gramerr.Parsef(head.line, head.col+len(head.text), "Unexpected end of input after nonterminal %s", head.text)
	}
	arrow := p.next()
	if arrow.tt != tokArrow {
		return prod, gramerr.Parsef(arrow.line, arrow.col, "Expected some hyphens after nonterminal %s", head.text)
	}

	prod.alts = [][]lexeme{{}}
	for !p.done() {
		lx := p.next()
		cur := len(prod.alts) - 1

		switch lx.tt {
		case tokEnd:
			return prod, nil
		case tokBar:
			prod.alts = append(prod.alts, []lexeme{})
		case tokBadName:
			return prod, badName(lx)
		case tokArrow:
			// a run of hyphens in a body is that many '-' terminals
			for i, ch := range lx.text {
				if ch == '>' {
					return prod, reserved(lexeme{tt: tokChar, text: ">", line: lx.line, col: lx.col + i})
				}
				prod.alts[cur] = append(prod.alts[cur], lexeme{tt: tokChar, text: "-", line: lx.line, col: lx.col + i})
			}
		case tokChar:
			if lx.text == ">" {
				return prod, reserved(lx)
			}
			if lx.text[0] >= utf8.RuneSelf {
				return prod, gramerr.Parse(lx.line, lx.col, "Symbols other than plain ASCII characters must be written as <name>", "non-ASCII symbol")
			}
			prod.alts[cur] = append(prod.alts[cur], lx)
		default:
			prod.alts[cur] = append(prod.alts[cur], lx)
		}
	}

	// last rule need not end with a newline
	return prod, nil
}

func badName(lx lexeme) error {
	return gramerr.Parse(lx.line, lx.col,
		"Unterminated name "+lx.text+"; names cannot contain '<', '>', ';', '|' or line breaks",
		"unterminated or malformed name "+lx.text)
}

func reserved(lx lexeme) error {
	return gramerr.Parsef(lx.line, lx.col, "Reserved character %s outside of a name", lx.text)
}

// build allocates tokens for every symbol of prods, in order of first
// mention, and stores the rules.
func build(prods []production) (grammar.Grammar, error) {
	heads := map[grammar.Symbol]bool{}
	for _, prod := range prods {
		heads[grammar.Symbol(prod.head.text)] = true
	}
	isNonTerminal := func(sym grammar.Symbol) bool {
		return heads[sym] || sym.IsUpper()
	}

	g := grammar.Empty()
	for _, prod := range prods {
		g.GetNonTerminal(grammar.Symbol(prod.head.text))

		var m grammar.Matrix
		for _, alt := range prod.alts {
			toks := grammar.Alternative{}
			for _, lx := range alt {
				sym := grammar.Symbol(lx.text)
				if !isNonTerminal(sym) {
					toks = append(toks, g.GetTerminal(sym))
					continue
				}
				if !heads[sym] {
					return grammar.Grammar{}, gramerr.Parsef(lx.line, lx.col, "Nonterminal %s is used but has no production", sym)
				}
				toks = append(toks, g.GetNonTerminal(sym))
			}
			m = append(m, toks)
		}

		g.AddRule(grammar.Symbol(prod.head.text), grammar.Encode(m))
	}

	return g, nil
}
