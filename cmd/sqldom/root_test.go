package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopSchema = "../../internal/schemafile/testdata/shop.yaml"

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestDDLMatchesGoldenBatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args   []string
		golden string
	}{
		{[]string{"--dialect", "sqlite", "--server-version", "3.45"}, "shop_sqlite.golden"},
		{[]string{"-d", "postgresql", "--server-version", "10"}, "shop_postgresql.golden"},
	}
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			t.Parallel()
			want, err := os.ReadFile("../../internal/schemafile/testdata/golden/" + tt.golden)
			require.NoError(t, err)

			out, _, err := execute(t, "", append([]string{"ddl", shopSchema}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, string(want), out)
		})
	}
}

func TestDDLFromStdin(t *testing.T) {
	t.Parallel()
	schema := `
schemas:
  - name: dbo
    tables:
      - name: T
        columns:
          - {name: Id, type: int32, not_null: true}
`
	out, _, err := execute(t, schema, "ddl", "-", "--dialect", "sqlserver")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE [dbo].[T] ([Id] int NOT NULL)\n", out)
}

func TestDDLErrors(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, "", "ddl", "testdata/missing.yaml")
	assert.Error(t, err)

	_, _, err = execute(t, "schemas: [{name: s, tables: [{name: T, columns: [{name: A, type: money}]}]}]", "ddl", "-")
	assert.ErrorContains(t, err, "money")

	_, _, err = execute(t, "", "ddl", shopSchema, "--dialect", "db2")
	assert.Error(t, err)

	_, _, err = execute(t, "", "ddl")
	assert.Error(t, err)
}

func TestDialectsListsProviders(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, "", "dialects")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"PROVIDER", "DRIVER", "VERSIONS"}, strings.Fields(lines[0]))
	assert.Len(t, lines, 7)
	assert.Contains(t, out, "pgx")
	assert.Contains(t, out, "mysql")
	assert.Regexp(t, `(?m)^oracle\s+-\s+`, out)
}

func TestVersionFlag(t *testing.T) {
	t.Parallel()
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "sqldom version dev\n", out)
}

func TestVerboseLogsToStderr(t *testing.T) {
	t.Parallel()
	_, errOut, err := execute(t, "", "dialects", "-v")
	require.NoError(t, err)
	assert.Contains(t, errOut, "configuration loaded")

	_, errOut, err = execute(t, "", "dialects")
	require.NoError(t, err)
	assert.Empty(t, errOut)
}

func TestConfigFile(t *testing.T) {
	t.Parallel()
	path := t.TempDir() + "/sqldom.yaml"
	require.NoError(t, os.WriteFile(path, []byte("provider: mysql\nforced_server_version: \"5.6\"\n"), 0o600))

	out, _, err := execute(t, "from users\nsql\n", "repl", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT * FROM `users`;")

	_, _, err = execute(t, "", "dialects", "--config", path+".missing")
	assert.Error(t, err)
}

func TestReplScript(t *testing.T) {
	t.Parallel()
	script := `
# comments and blank lines are skipped
table users
from users
select users.id
-- so are SQL comments
where users.id in (1, 2)
sql
exit
sql
`
	out, _, err := execute(t, script, "repl", "--dialect", "sqlite", "--history", "")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "SELECT"))
	assert.Contains(t, out, `  SELECT "users"."id" FROM "users" WHERE ("users"."id" IN (1, 2));`)
}

func TestReplScriptStopsAtFirstError(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, "table users\nfrom users\nwhere users.id ~ 1\nsql\n", "repl")
	assert.ErrorContains(t, err, "line 3")
}

func TestExtractPrintsYAML(t *testing.T) {
	t.Parallel()
	path := createPeopleDB(t)

	out, _, err := execute(t, "", "extract", "--dialect", "sqlite", "--dsn", path, "--catalog", "people")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog: people")
	assert.Contains(t, out, "name: main")
	assert.Contains(t, out, "name: people")
	assert.Contains(t, out, "name: name")
}

func TestExtractNeedsDSN(t *testing.T) {
	t.Parallel()
	_, _, err := execute(t, "", "extract", "--dialect", "sqlite")
	assert.ErrorContains(t, err, "no data source")
}
