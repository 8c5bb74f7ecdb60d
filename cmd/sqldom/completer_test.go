package main

import (
	"slices"
	"testing"

	"github.com/bawdo/sqldom/driver"
)

func newTestCompleter(t *testing.T, tables ...string) *replCompleter {
	t.Helper()
	sess, _ := newTestSession(t, driver.ProviderPostgreSQL)
	for _, name := range tables {
		run(t, sess, "table "+name)
	}
	return &replCompleter{sess: sess}
}

func complete(c *replCompleter, line string) []string {
	suffixes, _ := c.Do([]rune(line), len([]rune(line)))
	out := make([]string, len(suffixes))
	for i, s := range suffixes {
		out[i] = string(s)
	}
	return out
}

func TestCompleteCommands(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)

	if got := complete(c, "sel"); !slices.Equal(got, []string{"ect "}) {
		t.Errorf("expected [ect ], got %q", got)
	}
	got := complete(c, "d")
	for _, want := range []string{"ialect ", "istinct ", "isconnect ", "ot "} {
		if !slices.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	// hidden aliases are not offered
	if slices.Contains(complete(c, "ta"), "ke ") {
		t.Error("hidden command offered")
	}
}

func TestCommandNamesAreUnique(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	names := c.sess.commandNames()
	if !slices.IsSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
	if len(slices.Compact(slices.Clone(names))) != len(names) {
		t.Errorf("duplicate names: %v", names)
	}
}

func TestCompleteTableNames(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t, "users", "posts")
	c.sess.schema = map[string][]string{"people": {"id", "name"}, "users": {"id"}}

	if got := complete(c, "from u"); !slices.Equal(got, []string{"sers "}) {
		t.Errorf("expected [sers ], got %q", got)
	}
	if got := complete(c, "from p"); !slices.Equal(got, []string{"eople ", "osts "}) {
		t.Errorf("expected [eople  osts ], got %q", got)
	}
	if got := complete(c, "left join po"); !slices.Equal(got, []string{"sts "}) {
		t.Errorf("expected [sts ], got %q", got)
	}
}

func TestCompleteColumnRefs(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t, "people p")
	c.sess.schema = map[string][]string{"people": {"id", "name", "nick"}}

	if got := complete(c, "select p.n"); !slices.Equal(got, []string{"ame ", "ick "}) {
		t.Errorf("expected [ame  ick ], got %q", got)
	}
	if got := complete(c, "select p.id, p."); !slices.Contains(got, "* ") || !slices.Contains(got, "id ") {
		t.Errorf("expected star and columns, got %q", got)
	}
	if got := complete(c, "select CO"); !slices.Contains(got, "UNT( ") {
		t.Errorf("expected COUNT(, got %q", got)
	}
	if got := complete(c, "join people on p.id = people.i"); !slices.Equal(got, []string{"d "}) {
		t.Errorf("expected [d ], got %q", got)
	}
}

func TestCompleteOperatorsAndDirections(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t, "users")

	got := complete(c, "where users.id ")
	if len(got) != len(operators) {
		t.Errorf("expected every operator, got %q", got)
	}
	if got := complete(c, "where users.id b"); !slices.Equal(got, []string{"etween "}) {
		t.Errorf("expected [etween ], got %q", got)
	}
	if got := complete(c, "order users.id d"); !slices.Equal(got, []string{"esc "}) {
		t.Errorf("expected [esc ], got %q", got)
	}
}

func TestCompleteDialects(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	if got := complete(c, "dialect post"); !slices.Equal(got, []string{"gresql "}) {
		t.Errorf("expected [gresql ], got %q", got)
	}
	if got := complete(c, "softdelete d"); len(got) != 0 {
		t.Errorf("expected no candidates, got %q", got)
	}
}
