package main

import (
	"context"
	"sort"
	"strings"

	"github.com/bawdo/sqldom/nodes"
)

// commandEntry maps a command prefix to its handler. Prefixes ending in a
// space take arguments; the others must match the whole line.
type commandEntry struct {
	prefix    string
	handler   func(ctx context.Context, args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool
}

// initCommands builds the registry, longest prefix first so that
// "left join " wins over "join ".
func (s *Session) initCommands() {
	noArgs := func(f func() error) func(context.Context, string) error {
		return func(context.Context, string) error { return f() }
	}
	withArgs := func(f func(string) error) func(context.Context, string) error {
		return func(_ context.Context, a string) error { return f(a) }
	}

	s.commands = []commandEntry{
		{prefix: "help", handler: noArgs(s.cmdHelp)},
		{prefix: "sql", handler: noArgs(s.cmdSQL)},
		{prefix: "reset", handler: noArgs(s.cmdReset)},
		{prefix: "tables", handler: noArgs(s.cmdTables)},
		{prefix: "dot", handler: withArgs(s.cmdDot)},
		{prefix: "dot ", handler: withArgs(s.cmdDot)},

		{prefix: "table ", handler: withArgs(s.cmdTable), completer: completeTableArgs},
		{prefix: "t ", handler: withArgs(s.cmdTable), completer: completeTableArgs, hidden: true},
		{prefix: "from ", handler: withArgs(s.cmdFrom), completer: completeTableArgs},
		{prefix: "select ", handler: withArgs(s.cmdSelect), completer: completeColumnArgs},
		{prefix: "distinct", handler: noArgs(s.cmdDistinct)},
		{prefix: "where ", handler: withArgs(s.cmdWhere), completer: completeColumnArgs},
		{prefix: "join ", handler: withArgs(func(a string) error { return s.cmdJoin(a, nodes.InnerJoin) }), completer: completeJoinArgs},
		{prefix: "left join ", handler: withArgs(func(a string) error { return s.cmdJoin(a, nodes.LeftOuterJoin) }), completer: completeJoinArgs},
		{prefix: "group ", handler: withArgs(s.cmdGroup), completer: completeColumnArgs},
		{prefix: "having ", handler: withArgs(s.cmdHaving), completer: completeColumnArgs},
		{prefix: "order ", handler: withArgs(s.cmdOrder), completer: completeOrderArgs},
		{prefix: "limit ", handler: withArgs(s.cmdLimit)},
		{prefix: "take ", handler: withArgs(s.cmdLimit), hidden: true},
		{prefix: "offset ", handler: withArgs(s.cmdOffset)},

		{prefix: "dialect", handler: withArgs(s.cmdDialect)},
		{prefix: "dialect ", handler: withArgs(s.cmdDialect), completer: completeDialectArgs},
		{prefix: "softdelete", handler: withArgs(s.cmdSoftDelete)},
		{prefix: "softdelete ", handler: withArgs(s.cmdSoftDelete)},
		{prefix: "params", handler: noArgs(s.cmdParameterize)},

		{prefix: "connect", handler: s.cmdConnect},
		{prefix: "connect ", handler: s.cmdConnect},
		{prefix: "disconnect", handler: noArgs(s.cmdDisconnect)},
		{prefix: "exec", handler: func(ctx context.Context, _ string) error { return s.cmdExec(ctx) }},
		{prefix: "run", handler: func(ctx context.Context, _ string) error { return s.cmdExec(ctx) }, hidden: true},
	}

	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames returns the visible command words, without duplicates.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range s.commands {
		name := strings.TrimSpace(c.prefix)
		if c.hidden || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const helpText = `  Tables:
    table <name> [alias]          register a table (alias optional)
    tables                        list registered tables

  Query building:
    from <table>                  start a SELECT
    select <expr>, ...            t.col, t.*, *, count(*), sum(t.col) ... [as name]
    distinct                      SELECT DISTINCT
    where <condition>             add a WHERE condition (ANDed)
    join <table> on <condition>   inner join
    left join <table> on <cond>   left outer join
    group <t.col>, ...            GROUP BY
    having <condition>            add a HAVING condition
    order <t.col> [asc|desc], ... ORDER BY
    limit <n> / offset <n>        row window

  Conditions:
    t.a = 1, t.a <> 'x', t.a >= t.b, t.a like 'x%', t.a in (1, 2),
    t.a between 1 and 5, t.a is [not] null, not ..., ... and ... or ...

  Output:
    sql                           show the SQL for the current dialect
    dot [file]                    show or write the query tree as Graphviz DOT
    dialect [provider [version]]  show or switch the dialect
    softdelete [column|off]       hide rows whose column is set (default deleted_at)
    params                        toggle bound parameters for new values

  Database:
    connect [dsn]                 connect (default: configured dsn)
    disconnect                    close the connection
    exec                          run the query and print the rows

  reset clears the query, exit or quit leaves.
`

func (s *Session) cmdHelp() error {
	_, err := s.out.Write([]byte(helpText))
	return err
}
