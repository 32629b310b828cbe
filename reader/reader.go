// Package reader turns islisp source text into a sequence of runtime
// Values (spec §4.1). It is the one stage of the pipeline the spec treats
// as an external collaborator ("do not jump into input-derived code": the
// reader only ever produces data, never anything executable) — it is
// implemented here in full so the module runs end to end, but every later
// stage only ever trusts the typed Value tree it returns, never raw text.
package reader

import (
	"fmt"

	"islisp/lexer"
	"islisp/token"
	"islisp/value"
)

// ReadError reports malformed source, tagged with the token position of the
// offending input (spec §4.1, §7).
type ReadError struct {
	Position int
	Message  string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read error at %d: %s", e.Position, e.Message)
}

// Read scans and parses source into the sequence of literal Values it
// denotes.
func Read(source string) ([]value.Value, error) {
	toks, err := lexer.New(source).Scan()
	if err != nil {
		if re, ok := err.(*lexer.ReadError); ok {
			return nil, &ReadError{Position: re.Position, Message: re.Message}
		}
		return nil, err
	}

	r := &reader{toks: toks}
	var forms []value.Value
	for !r.atEOF() {
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
	return forms, nil
}

type reader struct {
	toks []token.Token
	pos  int
}

func (r *reader) atEOF() bool { return r.peek().Type == token.EOF }

func (r *reader) peek() token.Token { return r.toks[r.pos] }

func (r *reader) advance() token.Token {
	t := r.toks[r.pos]
	if t.Type != token.EOF {
		r.pos++
	}
	return t
}

func (r *reader) errf(at token.Token, format string, args ...any) error {
	return &ReadError{Position: at.Position, Message: fmt.Sprintf(format, args...)}
}

func (r *reader) readForm() (value.Value, error) {
	tok := r.peek()

	switch tok.Type {
	case token.EOF:
		return nil, r.errf(tok, "unexpected end of input")
	case token.LPAREN:
		return r.readUntil(token.LPAREN, token.RPAREN, value.TagList)
	case token.LBRACKET:
		return r.readUntil(token.LBRACKET, token.RBRACKET, value.TagVector)
	case token.LBRACE:
		return r.readUntil(token.LBRACE, token.RBRACE, value.TagMap)
	case token.HASHLBRACE:
		return r.readUntil(token.HASHLBRACE, token.RBRACE, value.TagSet)
	case token.HASH:
		return r.readTagged()
	case token.QUOTE:
		r.advance()
		return r.readWrapped("quote")
	case token.QUASIQUOTE:
		r.advance()
		return r.readWrapped("quasiquote")
	case token.UNQUOTE:
		r.advance()
		return r.readWrapped("unquote")
	case token.NUMBER:
		r.advance()
		return value.Number(tok.Literal.(int64)), nil
	case token.FLOAT:
		r.advance()
		return value.Float(tok.Literal.(float64)), nil
	case token.STRING:
		r.advance()
		return value.String(tok.Literal.(string)), nil
	case token.CHAR:
		r.advance()
		return value.Char(tok.Literal.(rune)), nil
	case token.BOOL:
		r.advance()
		return value.Boolean(tok.Literal.(bool)), nil
	case token.NIL:
		r.advance()
		return value.NilValue, nil
	case token.KEYWORD:
		r.advance()
		return value.Keyword(tok.Literal.(string)), nil
	case token.SYMBOL:
		r.advance()
		return value.Symbol(tok.Literal.(string)), nil
	case token.RPAREN, token.RBRACKET, token.RBRACE:
		return nil, r.errf(tok, "unexpected %q", tok.Lexeme)
	default:
		return nil, r.errf(tok, "unexpected token %q", tok.Lexeme)
	}
}

// readWrapped reads one form and wraps it as (sym form), implementing the
// reader rewrites 'x -> (quote x), `x -> (quasiquote x), ,x/~x -> (unquote x).
func (r *reader) readWrapped(sym string) (value.Value, error) {
	v, err := r.readForm()
	if err != nil {
		return nil, err
	}
	return value.NewList(value.Symbol(sym), v), nil
}

func (r *reader) readTagged() (value.Value, error) {
	hashTok := r.advance() // consume '#'
	if r.peek().Type != token.SYMBOL {
		return nil, r.errf(r.peek(), "expected a tag name after '#'")
	}
	nameTok := r.advance()
	payload, err := r.readForm()
	if err != nil {
		return nil, err
	}
	_ = hashTok
	return value.Tagged{Label: value.Symbol(nameTok.Literal.(string)), Value: payload}, nil
}

func (r *reader) readUntil(open, closeT token.TokenType, want value.Tag) (value.Value, error) {
	openTok := r.advance() // consume opener
	var items []value.Value
	for {
		if r.atEOF() {
			return nil, r.errf(openTok, "unterminated %q", openTok.Lexeme)
		}
		if r.peek().Type == closeT {
			r.advance()
			break
		}
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}

	switch want {
	case value.TagList:
		return value.NewList(items...), nil
	case value.TagVector:
		return value.NewVector(items...), nil
	case value.TagSet:
		s := value.EmptySet
		for _, v := range items {
			s = s.Conj(v)
		}
		return s, nil
	case value.TagMap:
		if len(items)%2 != 0 {
			return nil, r.errf(openTok, "map literal requires an even number of elements")
		}
		m := value.EmptyMap
		for i := 0; i < len(items); i += 2 {
			m = m.Assoc(items[i], items[i+1])
		}
		return m, nil
	default:
		_ = open
		return nil, fmt.Errorf("unreachable: unknown collection tag %v", want)
	}
}
