package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/sqldom/nodes"
)

// tokenize splits input into tokens. Single-quoted strings stay whole,
// with '' as the escaped quote, and the comparison operators !=, <>, >=
// and <= are single tokens.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true
		case ch == '(' || ch == ')' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))
		case (ch == '!' || ch == '<' || ch == '>') && i+1 < len(input) && input[i+1] == '=',
			ch == '<' && i+1 < len(input) && input[i+1] == '>':
			flush()
			tokens = append(tokens, input[i:i+2])
			i++
		case ch == '=' || ch == '<' || ch == '>':
			flush()
			tokens = append(tokens, string(ch))
		case ch == ' ' || ch == '\t':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// parseValue converts a literal token to a Go value.
func parseValue(token string) (any, error) {
	switch strings.ToLower(token) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if len(token) >= 2 && strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") {
		return strings.ReplaceAll(token[1:len(token)-1], "''", "'"), nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

// splitTopLevelCommas splits on commas outside parentheses, so that
// "count(t.a), t.b" yields two parts.
func splitTopLevelCommas(s string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func isColumnRef(token string) bool {
	if token == "" || token[0] == '\'' || !strings.Contains(token, ".") {
		return false
	}
	_, err := strconv.ParseFloat(token, 64)
	return err != nil
}

// resolveColRef resolves "table.column" against the registered tables.
func (s *Session) resolveColRef(ref string) (*nodes.Column, error) {
	name, col, ok := strings.Cut(ref, ".")
	if !ok || name == "" || col == "" {
		return nil, fmt.Errorf("expected table.column, got %q", ref)
	}
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown table %q (register it with 'table %s' first)", name, name)
	}
	if col == "*" {
		return t.Star(), nil
	}
	return t.Col(col), nil
}

// operand parses a column reference or a literal value.
func (s *Session) operand(token string) (nodes.Expression, error) {
	if isColumnRef(token) {
		return s.resolveColRef(token)
	}
	v, err := parseValue(token)
	if err != nil {
		return nil, err
	}
	return s.value(v), nil
}

// value wraps v as a parameter when parameterization is on.
func (s *Session) value(v any) nodes.Expression {
	if v == nil {
		return nodes.NewNull()
	}
	if s.parameterize {
		s.paramSeq++
		return nodes.NewParameter(fmt.Sprintf("p%d", s.paramSeq), v)
	}
	return nodes.NewLiteral(v)
}

var comparisonOps = map[string]nodes.NodeType{
	"=":  nodes.OpEquals,
	"!=": nodes.OpNotEquals,
	"<>": nodes.OpNotEquals,
	">":  nodes.OpGreaterThan,
	">=": nodes.OpGreaterThanOrEquals,
	"<":  nodes.OpLessThan,
	"<=": nodes.OpLessThanOrEquals,
}

// parseExpression parses conditions joined by AND and OR, each optionally
// prefixed with NOT. AND binds tighter than OR.
func (s *Session) parseExpression(input string) (nodes.Expression, error) {
	tokens := tokenize(strings.TrimSpace(input))
	if len(tokens) == 0 {
		return nil, errors.New("empty expression")
	}

	var ors []nodes.Expression
	var ands []nodes.Expression
	var cur []string
	inBetween := false

	finish := func() error {
		cond, err := s.parseCondition(cur)
		if err != nil {
			return err
		}
		ands = append(ands, cond)
		cur = nil
		return nil
	}

	for _, tok := range tokens {
		switch lower := strings.ToLower(tok); {
		case lower == "between":
			inBetween = true
		case lower == "and" && inBetween:
			inBetween = false
		case lower == "and":
			if err := finish(); err != nil {
				return nil, err
			}
			continue
		case lower == "or":
			if err := finish(); err != nil {
				return nil, err
			}
			ors = append(ors, nodes.And(ands...))
			ands = nil
			continue
		}
		cur = append(cur, tok)
	}
	if err := finish(); err != nil {
		return nil, err
	}
	ors = append(ors, nodes.And(ands...))
	return nodes.Or(ors...), nil
}

// parseCondition parses one predicate.
func (s *Session) parseCondition(tokens []string) (nodes.Expression, error) {
	if len(tokens) == 0 {
		return nil, errors.New("empty condition")
	}
	if strings.EqualFold(tokens[0], "not") {
		inner, err := s.parseCondition(tokens[1:])
		if err != nil {
			return nil, err
		}
		return nodes.Not(inner), nil
	}
	if len(tokens) < 2 {
		return nil, errors.New("expected: <table.column> <operator> <value>")
	}

	left, err := s.operand(tokens[0])
	if err != nil {
		return nil, err
	}
	rest := tokens[1:]
	negate := false
	if strings.EqualFold(rest[0], "not") && len(rest) > 1 {
		negate = true
		rest = rest[1:]
	}

	switch strings.ToLower(rest[0]) {
	case "is":
		return parseIsCondition(left, rest[1:])
	case "in":
		return s.parseInCondition(left, rest[1:], negate)
	case "like":
		if len(rest) != 2 {
			return nil, errors.New("expected: <table.column> [not] like <pattern>")
		}
		pattern, err := s.operand(rest[1])
		if err != nil {
			return nil, err
		}
		return nodes.NewLike(left, pattern, nil, negate), nil
	case "between":
		return s.parseBetweenCondition(left, rest[1:], negate)
	}

	op, ok := comparisonOps[rest[0]]
	if !ok || negate {
		return nil, fmt.Errorf("unknown operator %q", rest[0])
	}
	if len(rest) != 2 {
		return nil, fmt.Errorf("expected a single operand after %s", rest[0])
	}
	right, err := s.operand(rest[1])
	if err != nil {
		return nil, err
	}
	return nodes.NewBinary(op, left, right), nil
}

func parseIsCondition(left nodes.Expression, tokens []string) (nodes.Expression, error) {
	switch strings.ToLower(strings.Join(tokens, " ")) {
	case "null":
		return nodes.NewUnary(nodes.OpIsNull, left), nil
	case "not null":
		return nodes.NewUnary(nodes.OpIsNotNull, left), nil
	}
	return nil, errors.New("expected NULL or NOT NULL after IS")
}

func (s *Session) parseInCondition(left nodes.Expression, tokens []string, negate bool) (nodes.Expression, error) {
	var items []nodes.Expression
	for _, t := range tokens {
		if t == "(" || t == ")" || t == "," {
			continue
		}
		e, err := s.operand(t)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if len(items) == 0 {
		return nil, errors.New("IN requires at least one value")
	}
	op := nodes.OpIn
	if negate {
		op = nodes.OpNotIn
	}
	return nodes.NewBinary(op, left, nodes.NewRow(items...)), nil
}

func (s *Session) parseBetweenCondition(left nodes.Expression, tokens []string, negate bool) (nodes.Expression, error) {
	if len(tokens) != 3 || !strings.EqualFold(tokens[1], "and") {
		return nil, errors.New("expected: BETWEEN <low> AND <high>")
	}
	low, err := s.operand(tokens[0])
	if err != nil {
		return nil, err
	}
	high, err := s.operand(tokens[2])
	if err != nil {
		return nil, err
	}
	return nodes.NewBetween(left, low, high, negate), nil
}

var aggregates = map[string]nodes.NodeType{
	"count": nodes.OpCount,
	"sum":   nodes.OpSum,
	"avg":   nodes.OpAvg,
	"min":   nodes.OpMin,
	"max":   nodes.OpMax,
}

// parseProjection parses "*", "t.*", "t.col", "fn([distinct] t.col)" and
// "fn(*)", each optionally followed by "as alias".
func (s *Session) parseProjection(part string) (nodes.Expression, error) {
	tokens := tokenize(strings.TrimSpace(part))
	alias := ""
	if n := len(tokens); n >= 3 && strings.EqualFold(tokens[n-2], "as") {
		alias = tokens[n-1]
		tokens = tokens[:n-2]
	}

	var expr nodes.Expression
	switch {
	case len(tokens) == 1 && tokens[0] == "*":
		expr = nodes.Star()
	case len(tokens) == 1:
		e, err := s.operand(tokens[0])
		if err != nil {
			return nil, err
		}
		expr = e
	case len(tokens) >= 4 && tokens[1] == "(" && tokens[len(tokens)-1] == ")":
		op, ok := aggregates[strings.ToLower(tokens[0])]
		if !ok {
			return nil, fmt.Errorf("unknown function %q", tokens[0])
		}
		args := tokens[2 : len(tokens)-1]
		distinct := len(args) == 2 && strings.EqualFold(args[0], "distinct")
		if distinct {
			args = args[1:]
		}
		if len(args) != 1 {
			return nil, fmt.Errorf("%s takes one argument", tokens[0])
		}
		var arg nodes.Expression
		if args[0] != "*" {
			col, err := s.resolveColRef(args[0])
			if err != nil {
				return nil, err
			}
			arg = col
		}
		expr = nodes.NewAggregate(op, arg, distinct)
	default:
		return nil, fmt.Errorf("cannot parse projection %q", strings.TrimSpace(part))
	}

	if alias != "" {
		return nodes.NewColumnRef(expr, alias), nil
	}
	return expr, nil
}

// parseOrder parses "t.col [asc|desc]".
func (s *Session) parseOrder(part string) (*nodes.Order, error) {
	fields := strings.Fields(part)
	if len(fields) == 0 || len(fields) > 2 {
		return nil, fmt.Errorf("expected: <table.column> [asc|desc], got %q", strings.TrimSpace(part))
	}
	col, err := s.resolveColRef(fields[0])
	if err != nil {
		return nil, err
	}
	asc := true
	if len(fields) == 2 {
		switch strings.ToLower(fields[1]) {
		case "asc":
		case "desc":
			asc = false
		default:
			return nil, fmt.Errorf("expected asc or desc, got %q", fields[1])
		}
	}
	return nodes.NewOrder(col, asc), nil
}
