// Package formula evaluates the arithmetic formulas used by the pro-forma
// registries and resolves sets of them against known values.
//
// The grammar is deliberately small:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/") unary }
//	unary  = ("+" | "-") unary | primary
//	primary = number | identifier | "(" expr ")"
package formula

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Scope resolves identifiers to numbers during evaluation.
type Scope interface {
	Lookup(name string) (float64, bool)
}

// MapScope is a Scope backed by a map.
type MapScope map[string]float64

func (s MapScope) Lookup(name string) (float64, bool) {
	v, ok := s[name]
	return v, ok
}

// SyntaxError reports a malformed formula.
type SyntaxError struct {
	Source string
	Pos    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula %q: %s at offset %d", e.Source, e.Msg, e.Pos)
}

// UnknownVariableError is returned when a formula references a name the scope
// cannot resolve yet.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// Expr is a compiled formula.
type Expr struct {
	src  string
	root node
}

// Compile parses src into an Expr.
func Compile(src string) (*Expr, error) {
	p := &parser{src: src}
	if err := p.next(); err != nil {
		return nil, err
	}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return &Expr{src: strings.TrimSpace(src), root: root}, nil
}

// MustCompile is like Compile but panics on a malformed formula. It is meant
// for formulas written as constants in code.
func MustCompile(src string) *Expr {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Literal returns an Expr that always evaluates to v.
func Literal(v float64) *Expr {
	return &Expr{src: strconv.FormatFloat(v, 'f', -1, 64), root: numNode(v)}
}

// Eval evaluates e against scope.
func (e *Expr) Eval(scope Scope) (float64, error) {
	return e.root.eval(scope)
}

// Vars returns the distinct identifiers referenced by e, sorted.
func (e *Expr) Vars() []string {
	seen := map[string]struct{}{}
	e.root.vars(seen)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (e *Expr) String() string { return e.src }

type node interface {
	eval(Scope) (float64, error)
	vars(map[string]struct{})
}

type numNode float64

func (n numNode) eval(Scope) (float64, error) { return float64(n), nil }
func (n numNode) vars(map[string]struct{})    {}

type identNode string

func (n identNode) eval(s Scope) (float64, error) {
	v, ok := s.Lookup(string(n))
	if !ok {
		return 0, &UnknownVariableError{Name: string(n)}
	}
	return v, nil
}

func (n identNode) vars(seen map[string]struct{}) { seen[string(n)] = struct{}{} }

type negNode struct{ x node }

func (n negNode) eval(s Scope) (float64, error) {
	v, err := n.x.eval(s)
	return -v, err
}

func (n negNode) vars(seen map[string]struct{}) { n.x.vars(seen) }

type binNode struct {
	op   byte
	l, r node
}

func (n binNode) eval(s Scope) (float64, error) {
	l, err := n.l.eval(s)
	if err != nil {
		return 0, err
	}
	r, err := n.r.eval(s)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	default:
		// Division by zero yields an IEEE infinity or NaN; callers decide
		// whether a non-finite result counts.
		return l / r, nil
	}
}

func (n binNode) vars(seen map[string]struct{}) {
	n.l.vars(seen)
	n.r.vars(seen)
}

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	num  float64
	pos  int
}

type parser struct {
	src string
	pos int
	tok token
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Source: p.src, Pos: p.tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) next() error {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return nil
	}

	c := p.src[p.pos]
	switch {
	case c == '+' || c == '-' || c == '*' || c == '/':
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
	case isDigit(c) || c == '.':
		p.scanNumber()
		text := p.src[start:p.pos]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return &SyntaxError{Source: p.src, Pos: start, Msg: fmt.Sprintf("bad number %q", text)}
		}
		p.tok = token{kind: tokNum, text: text, num: v, pos: start}
	case isIdentStart(c):
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	default:
		return &SyntaxError{Source: p.src, Pos: start, Msg: fmt.Sprintf("unexpected character %q", c)}
	}
	return nil
}

func (p *parser) scanNumber() {
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		save := p.pos
		p.pos++
		if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
			p.pos++
		}
		if p.pos >= len(p.src) || !isDigit(p.src[p.pos]) {
			p.pos = save
			return
		}
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
	}
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text[0]
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text[0]
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, l: left, r: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		neg := p.tok.text == "-"
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if neg {
			return negNode{x: x}, nil
		}
		return x, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	switch p.tok.kind {
	case tokNum:
		n := numNode(p.tok.num)
		return n, p.next()
	case tokIdent:
		n := identNode(p.tok.text)
		return n, p.next()
	case tokLParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("missing closing parenthesis")
		}
		return inner, p.next()
	case tokEOF:
		return nil, p.errorf("unexpected end of formula")
	default:
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
