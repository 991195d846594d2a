package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Transform evaluates a transform expression against an extracted value.
//
// The language is deliberately small and sandboxed: the only binding is
// "value" (the extracted value), and the only operations are numeric
// arithmetic (+ - * / %), string concatenation via +, parentheses, literals,
// and a fixed function set:
//
//	upper(s) lower(s) trim(s) length(x) number(x) string(x)
//	replace(s, old, new) substr(s, start, end) concat(a, b, ...)
//
// No other names resolve, nothing performs I/O, and evaluation has no state,
// so a transform can neither observe nor disturb anything beyond its input.
func Transform(expr string, value interface{}) (interface{}, error) {
	p := &parser{input: expr, value: value}
	result, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected %q at offset %d", rest(p), p.pos)
	}
	return result, nil
}

func rest(p *parser) string {
	if p.pos < len(p.input) {
		return p.input[p.pos:]
	}
	return ""
}

type parser struct {
	input string
	pos   int
	value interface{}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

// parseExpr handles + and -.
func (p *parser) parseExpr() (interface{}, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left, err = applyAdditive(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

// parseTerm handles *, / and %.
func (p *parser) parseTerm() (interface{}, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' && op != '%' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left, err = applyMultiplicative(op, left, right)
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parseUnary() (interface{}, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		n, ok := asNumber(v)
		if !ok {
			return nil, fmt.Errorf("unary minus needs a number, got %T", v)
		}
		return -n, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (interface{}, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return v, nil
	case c == '"' || c == '\'':
		return p.parseString(c)
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseIdent()
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", rest(p), p.pos)
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("expected %q at offset %d", string(c), p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) parseString(quote byte) (interface{}, error) {
	p.pos++ // opening quote
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			sb.WriteByte(unescape(p.input[p.pos]))
			p.pos++
			continue
		}
		if c == quote {
			p.pos++
			return sb.String(), nil
		}
		sb.WriteByte(c)
		p.pos++
	}
	return nil, fmt.Errorf("unterminated string literal")
}

// unescape resolves the standard escapes; any other escaped byte stands for
// itself (so \" and \' work under either quote style).
func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	}
	return c
}

func (p *parser) parseNumber() (interface{}, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return n, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) parseIdent() (interface{}, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]

	p.skipSpace()
	if p.peek() == '(' {
		return p.parseCall(name)
	}

	if name == "value" {
		return normalize(p.value), nil
	}
	return nil, fmt.Errorf("unknown identifier %q", name)
}

func (p *parser) parseCall(name string) (interface{}, error) {
	p.pos++ // consume '('
	var args []interface{}
	p.skipSpace()
	if p.peek() != ')' {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return callFunction(name, args)
}

func callFunction(name string, args []interface{}) (interface{}, error) {
	switch name {
	case "upper":
		s, err := oneString(name, args)
		return strings.ToUpper(s), err
	case "lower":
		s, err := oneString(name, args)
		return strings.ToLower(s), err
	case "trim":
		s, err := oneString(name, args)
		return strings.TrimSpace(s), err
	case "length":
		if len(args) != 1 {
			return nil, fmt.Errorf("length takes 1 argument")
		}
		switch v := args[0].(type) {
		case string:
			return float64(len(v)), nil
		case []interface{}:
			return float64(len(v)), nil
		case map[string]interface{}:
			return float64(len(v)), nil
		}
		return nil, fmt.Errorf("length of %T not defined", args[0])
	case "number":
		if len(args) != 1 {
			return nil, fmt.Errorf("number takes 1 argument")
		}
		n, ok := asNumber(args[0])
		if !ok {
			return nil, fmt.Errorf("cannot convert %T to number", args[0])
		}
		return n, nil
	case "string":
		if len(args) != 1 {
			return nil, fmt.Errorf("string takes 1 argument")
		}
		return stringify(args[0]), nil
	case "replace":
		if len(args) != 3 {
			return nil, fmt.Errorf("replace takes 3 arguments")
		}
		s, ok1 := args[0].(string)
		old, ok2 := args[1].(string)
		repl, ok3 := args[2].(string)
		if !ok1 || !ok2 || !ok3 {
			return nil, fmt.Errorf("replace takes string arguments")
		}
		return strings.ReplaceAll(s, old, repl), nil
	case "substr":
		if len(args) != 3 {
			return nil, fmt.Errorf("substr takes 3 arguments")
		}
		s, ok := args[0].(string)
		start, ok2 := asNumber(args[1])
		end, ok3 := asNumber(args[2])
		if !ok || !ok2 || !ok3 {
			return nil, fmt.Errorf("substr takes (string, number, number)")
		}
		si, ei := int(start), int(end)
		if si < 0 || ei > len(s) || si > ei {
			return nil, fmt.Errorf("substr bounds [%d, %d) out of range for length %d", si, ei, len(s))
		}
		return s[si:ei], nil
	case "concat":
		var sb strings.Builder
		for _, a := range args {
			sb.WriteString(stringify(a))
		}
		return sb.String(), nil
	}
	return nil, fmt.Errorf("unknown function %q", name)
}

func oneString(name string, args []interface{}) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%s takes 1 argument", name)
	}
	s, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("%s takes a string, got %T", name, args[0])
	}
	return s, nil
}

func applyAdditive(op byte, left, right interface{}) (interface{}, error) {
	if op == '+' {
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
	}
	ln, lok := asNumber(left)
	rn, rok := asNumber(right)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %q needs numbers, got %T and %T", string(op), left, right)
	}
	if op == '+' {
		return ln + rn, nil
	}
	return ln - rn, nil
}

func applyMultiplicative(op byte, left, right interface{}) (interface{}, error) {
	ln, lok := asNumber(left)
	rn, rok := asNumber(right)
	if !lok || !rok {
		return nil, fmt.Errorf("operator %q needs numbers, got %T and %T", string(op), left, right)
	}
	switch op {
	case '*':
		return ln * rn, nil
	case '/':
		if rn == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return ln / rn, nil
	default: // '%'
		if rn == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return float64(int64(ln) % int64(rn)), nil
	}
}

// asNumber coerces evaluator values to float64. Numeric strings count so
// header and regex extractions can feed arithmetic.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// normalize maps extraction outputs into evaluator values (ints become
// float64 so the status code extraction composes with arithmetic).
func normalize(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return v
}
