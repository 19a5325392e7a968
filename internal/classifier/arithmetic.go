package classifier

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CalculationFailedReply is returned by Evaluate for anything it cannot compute
const CalculationFailedReply = "Sorry, I couldn't calculate that. Could you rephrase?"

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrMalformed      = errors.New("malformed expression")
)

var (
	expressionSignature = regexp.MustCompile(`^\s*(\d+(\.\d+)?\s*[+\-*/]\s*)+\d+(\.\d+)?\s*$`)
	expressionPrefix    = regexp.MustCompile(`^\d+\s*[+\-*/]\s*\d+`)
	nonArithmetic       = regexp.MustCompile(`[^0-9.+\-*/()\s]`)
)

// LooksLikeExpression reports whether text is a bare arithmetic expression,
// or at least starts with "<number> <operator> <number>".
func LooksLikeExpression(text string) bool {
	text = strings.TrimSpace(text)
	return expressionSignature.MatchString(text) || expressionPrefix.MatchString(text)
}

// Sanitize drops every character that cannot appear in an arithmetic expression
func Sanitize(text string) string {
	return strings.TrimSpace(nonArithmetic.ReplaceAllString(text, ""))
}

// Evaluate sanitizes text, computes it and renders "Result: <expr> = <value>".
// Any failure yields CalculationFailedReply.
func Evaluate(text string) string {
	expr := Sanitize(text)
	value, err := Calculate(expr)
	if err != nil {
		return CalculationFailedReply
	}
	return fmt.Sprintf("Result: %s = %s", expr, FormatNumber(value))
}

// FormatNumber prints v in its shortest decimal form, without a fraction for whole numbers
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Calculate evaluates a numeric expression made of literals, + - * /,
// unary signs and parentheses, with the usual precedence.
func Calculate(expr string) (float64, error) {
	p := &exprParser{src: expr}
	p.skipSpace()
	if p.done() {
		return 0, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	v, err := p.parseSum()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if !p.done() {
		return 0, fmt.Errorf("%w: unexpected %q at offset %d", ErrMalformed, p.src[p.pos], p.pos)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result is not finite", ErrMalformed)
	}
	return v, nil
}

// maxDepth bounds nesting of parentheses and unary signs
const maxDepth = 64

type exprParser struct {
	src   string
	pos   int
	depth int
}

func (p *exprParser) done() bool { return p.pos >= len(p.src) }

func (p *exprParser) skipSpace() {
	for !p.done() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

// sum := product (('+' | '-') product)*
func (p *exprParser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseProduct()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

// product := unary (('*' | '/') unary)*
func (p *exprParser) parseProduct() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		left /= right
	}
}

// unary := ('+' | '-') unary | primary
func (p *exprParser) parseUnary() (float64, error) {
	op := p.peek()
	if op != '+' && op != '-' {
		return p.parsePrimary()
	}

	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return 0, fmt.Errorf("%w: nested too deeply", ErrMalformed)
	}

	p.pos++
	v, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	if op == '-' {
		return -v, nil
	}
	return v, nil
}

// primary := number | '(' sum ')'
func (p *exprParser) parsePrimary() (float64, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.depth++
		defer func() { p.depth-- }()
		if p.depth > maxDepth {
			return 0, fmt.Errorf("%w: nested too deeply", ErrMalformed)
		}

		p.pos++
		v, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrMalformed)
		}
		p.pos++
		return v, nil
	case c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == 0:
		return 0, fmt.Errorf("%w: unexpected end of input", ErrMalformed)
	default:
		return 0, fmt.Errorf("%w: unexpected %q at offset %d", ErrMalformed, c, p.pos)
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	for !p.done() {
		c := p.src[p.pos]
		if c != '.' && (c < '0' || c > '9') {
			break
		}
		p.pos++
	}

	lit := p.src[start:p.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrMalformed, lit)
	}
	return v, nil
}
