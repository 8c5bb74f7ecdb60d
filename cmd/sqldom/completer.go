package main

import (
	"slices"
	"sort"
	"strings"

	"github.com/bawdo/sqldom/driver"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand   completionContext = iota // start of line or partial command
	contextTableName                          // after from/table/join
	contextColumnRef                          // after select/where/group/having
	contextOrderDir                           // after a column in order
	contextOperator                           // after a column in a condition
	contextDialect                            // after dialect
	contextNone
)

var orderDirs = []string{"asc", "desc"}

var operators = []string{"!=", "<", "<=", "<>", "=", ">", ">=", "between", "in", "is", "like", "not"}

var functionNames = []string{"AVG(", "COUNT(", "COUNT(DISTINCT ", "MAX(", "MIN(", "SUM("}

// replCompleter implements readline's AutoCompleter.
type replCompleter struct {
	sess *Session
}

// Do returns the suffixes completing the word before pos, and the length
// of that word.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	ctx, prefix := c.parseContext(string(line[:pos]))

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = filterPrefix(c.sess.commandNames(), prefix)
	case contextTableName:
		candidates = filterPrefix(c.tableNames(), prefix)
	case contextColumnRef:
		candidates = c.completeColumnRef(prefix)
	case contextOrderDir:
		candidates = filterPrefix(orderDirs, prefix)
	case contextOperator:
		candidates = filterPrefix(operators, prefix)
	case contextDialect:
		candidates = filterPrefix(driver.Providers(), prefix)
	}

	for _, cand := range candidates {
		newLine = append(newLine, []rune(cand[len(prefix):]+" "))
	}
	return newLine, len([]rune(prefix))
}

// parseContext finds the command the line starts with and lets its
// completer classify the rest.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)
	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") || !strings.HasPrefix(lower, cmd.prefix) {
			continue
		}
		if cmd.completer == nil {
			return contextNone, ""
		}
		return cmd.completer(line[len(cmd.prefix):])
	}
	return contextCommand, strings.TrimSpace(line)
}

func completeTableArgs(args string) (completionContext, string) {
	if strings.ContainsAny(args, " \t") {
		return contextNone, ""
	}
	return contextTableName, args
}

// completeColumnArgs offers operators for the word after a column
// reference and column references otherwise.
func completeColumnArgs(args string) (completionContext, string) {
	tok := lastToken(args)
	if followsColumnRef(args[:len(args)-len(tok)]) {
		return contextOperator, tok
	}
	return contextColumnRef, tok
}

func completeOrderArgs(args string) (completionContext, string) {
	tok := lastToken(args)
	if followsColumnRef(args[:len(args)-len(tok)]) {
		return contextOrderDir, tok
	}
	return contextColumnRef, tok
}

func followsColumnRef(before string) bool {
	return strings.HasSuffix(before, " ") && isColumnRef(lastToken(strings.TrimRight(before, " \t")))
}

// completeJoinArgs completes the table before " on " and columns after it.
func completeJoinArgs(args string) (completionContext, string) {
	if i := strings.Index(strings.ToLower(args), " on "); i >= 0 {
		return completeColumnArgs(args[i+len(" on "):])
	}
	return completeTableArgs(args)
}

func completeDialectArgs(args string) (completionContext, string) {
	if strings.ContainsAny(args, " \t") {
		return contextNone, ""
	}
	return contextDialect, args
}

// tableNames returns registered and connected-database table names.
func (c *replCompleter) tableNames() []string {
	var names []string
	for name := range c.sess.tables {
		names = append(names, name)
	}
	for name := range c.sess.schema {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// completeColumnRef completes "table." with the columns the connected
// database reports, and anything else with table and function names.
func (c *replCompleter) completeColumnRef(prefix string) []string {
	name, _, ok := strings.Cut(prefix, ".")
	if !ok {
		return append(filterPrefix(c.tableNames(), prefix), filterPrefix(functionNames, prefix)...)
	}

	candidates := []string{name + ".*"}
	source := name
	if t, ok := c.sess.tables[name]; ok {
		source = t.Name
	}
	for _, col := range c.sess.schema[source] {
		candidates = append(candidates, name+"."+col)
	}
	return filterPrefix(candidates, prefix)
}

// filterPrefix returns items that start with prefix, ignoring case.
func filterPrefix(items []string, prefix string) []string {
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the text after the last space, tab, comma or paren.
func lastToken(s string) string {
	if i := strings.LastIndexAny(s, " \t,("); i >= 0 {
		return s[i+1:]
	}
	return s
}
