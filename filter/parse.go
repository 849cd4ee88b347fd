package filter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type token struct {
	tt   css.TokenType
	data string
}

// Parse reads conjunction of attribute comparisons, e.g.
//
//	population >= 10000 and kind <> 'village'
//
// Literals are numbers, single or double quoted texts or bare identifiers
// (taken as texts). The returned expression is simplified by Conjoin
// without scope.
func Parse(text string) (Expr, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	var terms []Expr
	for {
		c, err := p.comparison()
		if err != nil {
			return nil, err
		}
		terms = append(terms, c)

		p.skipSpace()
		if p.done() {
			break
		}
		if t := p.next(); t.tt != css.IdentToken || !strings.EqualFold(t.data, "and") {
			return nil, fmt.Errorf("%w: expected 'and' but found %q", ErrSyntax, t.data)
		}
	}
	return Conjoin(nil, terms...), nil
}

// ParseComparison reads exactly one attribute comparison.
func ParseComparison(text string) (Compare, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return Compare{}, err
	}
	p := &parser{tokens: tokens}
	c, err := p.comparison()
	if err != nil {
		return Compare{}, err
	}
	if p.skipSpace(); !p.done() {
		return Compare{}, fmt.Errorf("%w: unexpected %q after comparison", ErrSyntax, p.tokens[p.pos].data)
	}
	return c, nil
}

func tokenize(text string) ([]token, error) {
	lexer := css.NewLexer(parse.NewInput(strings.NewReader(text)))

	var tokens []token
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
			}
			return tokens, nil
		}
		// lexer reuses its buffer
		tokens = append(tokens, token{tt: tt, data: string(data)})
	}
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) next() token {
	if p.done() {
		return token{tt: css.ErrorToken}
	}
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) skipSpace() {
	for !p.done() && p.tokens[p.pos].tt == css.WhitespaceToken {
		p.pos++
	}
}

func (p *parser) comparison() (Compare, error) {
	p.skipSpace()
	attr := p.next()
	if attr.tt != css.IdentToken {
		return Compare{}, fmt.Errorf("%w: expected attribute name but found %q", ErrSyntax, attr.data)
	}

	p.skipSpace()
	op, err := p.operator()
	if err != nil {
		return Compare{}, err
	}

	p.skipSpace()
	val, err := p.literal()
	if err != nil {
		return Compare{}, err
	}
	return Compare{Attr: attr.data, Op: op, Value: val}, nil
}

// operator glues adjacent delimiters, so "<=" is accepted but "< =" is not.
func (p *parser) operator() (Op, error) {
	first := p.next()
	if first.tt != css.DelimToken {
		return Op(0), fmt.Errorf("%w: expected operator but found %q", ErrSyntax, first.data)
	}
	sym := first.data
	if !p.done() && p.tokens[p.pos].tt == css.DelimToken {
		if second := p.tokens[p.pos].data; second == "=" || (sym == "<" && second == ">") {
			sym += second
			p.pos++
		}
	}
	return ParseSymbol(sym)
}

func (p *parser) literal() (Value, error) {
	t := p.next()
	switch t.tt {
	case css.NumberToken:
		v, err := strconv.ParseFloat(t.data, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: bad number %q: %w", ErrSyntax, t.data, err)
		}
		return Number(v), nil
	case css.StringToken:
		return Text(unquote(t.data)), nil
	case css.IdentToken:
		return Text(t.data), nil
	}
	return Value{}, fmt.Errorf("%w: expected literal but found %q", ErrSyntax, t.data)
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
