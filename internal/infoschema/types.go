package infoschema

import (
	"strconv"
	"strings"

	"github.com/bawdo/sqldom/types"
)

var typeNames = map[string]types.SqlType{
	"bit":                         types.Boolean,
	"bool":                        types.Boolean,
	"boolean":                     types.Boolean,
	"tinyint":                     types.Int8,
	"smallint":                    types.Int16,
	"int2":                        types.Int16,
	"int":                         types.Int32,
	"integer":                     types.Int32,
	"int4":                        types.Int32,
	"mediumint":                   types.Int32,
	"bigint":                      types.Int64,
	"int8":                        types.Int64,
	"decimal":                     types.Decimal,
	"numeric":                     types.Decimal,
	"money":                       types.Decimal,
	"real":                        types.Float,
	"float4":                      types.Float,
	"float":                       types.Double,
	"float8":                      types.Double,
	"double":                      types.Double,
	"double precision":            types.Double,
	"date":                        types.DateTime,
	"datetime":                    types.DateTime,
	"datetime2":                   types.DateTime,
	"smalldatetime":               types.DateTime,
	"timestamp":                   types.DateTime,
	"timestamp without time zone": types.DateTime,
	"datetimeoffset":              types.DateTimeOffset,
	"timestamp with time zone":    types.DateTimeOffset,
	"timestamptz":                 types.DateTimeOffset,
	"interval":                    types.Interval,
	"time":                        types.Interval,
	"char":                        types.Char,
	"character":                   types.Char,
	"nchar":                       types.Char,
	"varchar":                     types.VarChar,
	"character varying":           types.VarChar,
	"nvarchar":                    types.VarChar,
	"varchar2":                    types.VarChar,
	"text":                        types.VarCharMax,
	"ntext":                       types.VarCharMax,
	"mediumtext":                  types.VarCharMax,
	"longtext":                    types.VarCharMax,
	"clob":                        types.VarCharMax,
	"binary":                      types.Binary,
	"varbinary":                   types.VarBinary,
	"blob":                        types.VarBinaryMax,
	"longblob":                    types.VarBinaryMax,
	"bytea":                       types.VarBinaryMax,
	"image":                       types.VarBinaryMax,
	"uniqueidentifier":            types.Guid,
	"uuid":                        types.Guid,
	"guid":                        types.Guid,
}

// ParseType maps an information_schema data_type with its facets. Unknown
// names are kept verbatim as the type name. A length of -1 (SQL Server's
// "max") selects the unbounded variant.
func ParseType(name string, length, precision, scale int64) types.ValueType {
	st, ok := typeNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return types.Native(name)
	}
	switch st {
	case types.Char, types.VarChar, types.Binary, types.VarBinary:
		switch {
		case length < 0 && st == types.VarChar:
			return types.Of(types.VarCharMax)
		case length < 0 && st == types.VarBinary:
			return types.Of(types.VarBinaryMax)
		case length > 0:
			return types.WithLength(st, int(length))
		}
	case types.Decimal:
		if precision > 0 {
			return types.WithPrecision(st, int(precision), int(scale))
		}
	}
	return types.Of(st)
}

// ParseDeclaredType maps a declared column type such as "VARCHAR(50)" or
// "NUMERIC(10, 2)". An empty declaration has no affinity and maps to
// Unknown.
func ParseDeclaredType(decl string) types.ValueType {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return types.Of(types.Unknown)
	}
	name, args, found := strings.Cut(decl, "(")
	if !found {
		return ParseType(decl, 0, 0, 0)
	}
	args = strings.TrimSuffix(strings.TrimSpace(args), ")")
	first, second, _ := strings.Cut(args, ",")
	a, _ := strconv.ParseInt(strings.TrimSpace(first), 10, 64)
	b, _ := strconv.ParseInt(strings.TrimSpace(second), 10, 64)
	vt := ParseType(name, 0, 0, 0)
	switch vt.Type {
	case types.Char, types.VarChar, types.Binary, types.VarBinary:
		return ParseType(name, a, 0, 0)
	case types.Decimal:
		return ParseType(name, 0, a, b)
	case types.Unknown:
		vt.TypeName = decl
	}
	return vt
}
