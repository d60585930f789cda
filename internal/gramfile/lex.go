// Package gramfile reads grammars from their text form:
//
//	E --> E + T | T
//	T --> a
//	<list> --- <item> <list> |
//
// Each line holds one production: a nonterminal, one or more hyphens
// optionally followed by '>', and alternatives separated by '|'. A rule may
// also end at ';'. A nonterminal is a single upper-case letter or a bracketed
// <name>; every other single character is a terminal, unless it appears on
// the left of some production. Whitespace is insignificant and an empty
// alternative is an epsilon production.
package gramfile

import (
	"fmt"
	"sync"

	"github.com/dekarrin/gnorm/internal/gramerr"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'gnorm.gramfile'.
func tracer() tracing.Trace {
	return tracing.Select("gnorm.gramfile")
}

type tokenType int

const (
	tokName tokenType = iota
	tokBadName
	tokArrow
	tokBar
	tokEnd
	tokChar
)

func (tt tokenType) String() string {
	switch tt {
	case tokName:
		return "bracketed name"
	case tokBadName:
		return "unterminated name"
	case tokArrow:
		return "hyphens"
	case tokBar:
		return "'|'"
	case tokEnd:
		return "end of rule"
	case tokChar:
		return "symbol"
	default:
		return fmt.Sprintf("tokenType(%d)", int(tt))
	}
}

// lexeme is one token of grammar text.
type lexeme struct {
	tt   tokenType
	text string
	line int
	col  int
}

var (
	lexerOnce sync.Once
	lexer     *lexmachine.Lexer
	lexerErr  error
)

func makeToken(tt tokenType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(tt), string(m.Bytes), m), nil
	}
}

func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// getLexer returns the compiled lexer for grammar text. Rules added first win
// on matches of equal length.
func getLexer() (*lexmachine.Lexer, error) {
	lexerOnce.Do(func() {
		lex := lexmachine.NewLexer()
		lex.Add([]byte(`<[^<>;|\n]+>`), makeToken(tokName))
		lex.Add([]byte(`<[^<>;|\n]*`), makeToken(tokBadName))
		lex.Add([]byte(`\-+>?`), makeToken(tokArrow))
		lex.Add([]byte(`\|`), makeToken(tokBar))
		lex.Add([]byte(`;|\n`), makeToken(tokEnd))
		lex.Add([]byte(`( |\t|\r)+`), skip)
		lex.Add([]byte(`.`), makeToken(tokChar))

		if err := lex.Compile(); err != nil {
			tracer().Errorf("compiling grammar lexer: %v", err)
			lexerErr = err
			return
		}
		lexer = lex
	})
	return lexer, lexerErr
}

// lex splits text into lexemes. Positions are 1-indexed.
func lex(text string) ([]lexeme, error) {
	lx, err := getLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := lx.Scanner([]byte(text))
	if err != nil {
		return nil, err
	}

	var lexemes []lexeme
	for {
		tok, err, eof := scanner.Next()
		if eof {
			break
		}
		if err != nil {
			line, col := 1, 1
			if len(lexemes) > 0 {
				last := lexemes[len(lexemes)-1]
				line, col = last.line, last.col+len(last.text)
			}
			return nil, gramerr.WrapParse(err, line, col, "Input could not be read as grammar text")
		}

		t := tok.(*lexmachine.Token)
		lexemes = append(lexemes, lexeme{
			tt:   tokenType(t.Type),
			text: string(t.Lexeme),
			line: t.StartLine,
			col:  t.StartColumn,
		})
	}
	tracer().Debugf("lexed %d tokens", len(lexemes))
	return lexemes, nil
}
