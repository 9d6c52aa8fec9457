// Package demotools provides the demo capability set used by the example
// binaries: a mock weather tool, an arithmetic calculator, an in-memory
// key-value store with matching resources, and two prompt templates.
package demotools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jtuffin/starmcp/tools"
)

// CalculateParams are the arguments for the calculate tool.
type CalculateParams struct {
	Expression string `json:"expression"`
}

// CalculateResult carries the evaluated expression and its value.
type CalculateResult struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
}

// NewCalculateTool creates a tool that evaluates basic arithmetic
// expressions: + - * / with parentheses and decimal numbers.
func NewCalculateTool(m *Metrics) tools.Tool {
	handler := func(ctx context.Context, params CalculateParams) (CalculateResult, error) {
		m.Requests.Add(1)

		value, err := evaluate(params.Expression)
		if err != nil {
			m.Errors.Add(1)
			return CalculateResult{}, fmt.Errorf("evaluating %q: %w", params.Expression, err)
		}

		return CalculateResult{
			Expression: params.Expression,
			Result:     value,
		}, nil
	}

	return tools.NewTool(
		"calculate",
		"Perform mathematical calculations",
		handler,
	)
}

const allowedExprChars = "0123456789+-*/(). "

// evaluate parses and computes an arithmetic expression with standard
// operator precedence.
func evaluate(expr string) (float64, error) {
	for _, c := range expr {
		if !strings.ContainsRune(allowedExprChars, c) {
			return 0, fmt.Errorf("invalid character %q in expression", c)
		}
	}

	p := &exprParser{input: expr}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
	}
	return value, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

// parseExpr handles + and -.
func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
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

// parseTerm handles * and /.
func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
}

// parseFactor handles parentheses, unary signs and numbers.
func (p *exprParser) parseFactor() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	switch {
	case c == '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		c, ok = p.peek()
		if !ok || c != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil

	case c == '-':
		p.pos++
		value, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -value, nil

	case c == '+':
		p.pos++
		return p.parseFactor()

	default:
		return p.parseNumber()
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected number at position %d", start)
	}
	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return value, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
