package infoschema

import (
	"testing"

	"github.com/bawdo/sqldom/internal/testutil"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/types"
)

func TestParseType(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name                     string
		length, precision, scale int64
		want                     types.ValueType
	}{
		{"integer", 0, 32, 0, types.Of(types.Int32)},
		{"character varying", 40, 0, 0, types.WithLength(types.VarChar, 40)},
		{"nvarchar", -1, 0, 0, types.Of(types.VarCharMax)},
		{"varbinary", -1, 0, 0, types.Of(types.VarBinaryMax)},
		{"NUMERIC", 0, 18, 4, types.WithPrecision(types.Decimal, 18, 4)},
		{"numeric", 0, 0, 0, types.Of(types.Decimal)},
		{"timestamp with time zone", 0, 0, 0, types.Of(types.DateTimeOffset)},
		{"uniqueidentifier", 0, 0, 0, types.Of(types.Guid)},
		{"geometry", 0, 0, 0, types.Native("geometry")},
	}
	for _, tc := range cases {
		testutil.AssertEqual(t, ParseType(tc.name, tc.length, tc.precision, tc.scale), tc.want)
	}
}

func TestParseDeclaredType(t *testing.T) {
	t.Parallel()
	cases := []struct {
		decl string
		want types.ValueType
	}{
		{"", types.Of(types.Unknown)},
		{"INTEGER", types.Of(types.Int32)},
		{"VARCHAR(50)", types.WithLength(types.VarChar, 50)},
		{"NUMERIC(10, 2)", types.WithPrecision(types.Decimal, 10, 2)},
		{"TEXT", types.Of(types.VarCharMax)},
		{"POINT(2)", types.Native("POINT(2)")},
	}
	for _, tc := range cases {
		testutil.AssertEqual(t, ParseDeclaredType(tc.decl), tc.want)
	}
}

func TestParseReferentialAction(t *testing.T) {
	t.Parallel()
	cases := map[string]model.ReferentialAction{
		"CASCADE":     model.Cascade,
		"set null":    model.SetNull,
		"SET DEFAULT": model.SetDefault,
		"RESTRICT":    model.Restrict,
		"NO ACTION":   model.NoAction,
		"":            model.NoAction,
	}
	for rule, want := range cases {
		testutil.AssertEqual(t, ParseReferentialAction(rule), want)
	}
}
