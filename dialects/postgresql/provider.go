package postgresql

import (
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/driver"
)

func init() {
	driver.Register(&driver.Provider{
		Name:          driver.ProviderPostgreSQL,
		DriverName:    "pgx",
		VersionQuery:  "SHOW server_version",
		DefaultSchema: DefaultSchema,
		Versions: []driver.VersionFactory{
			{Min: driver.V(8, 3), New: driverFor(8)},
			{Min: driver.V(10, 0), New: driverFor(10)},
		},
	})
}

func driverFor(major int) func(driver.ServerInfo) *driver.SqlDriver {
	return func(info driver.ServerInfo) *driver.SqlDriver {
		return driver.NewSqlDriver(driver.ProviderPostgreSQL, info, NewTranslator(major), newCompiler, NewExtractor(info.Version))
	}
}

func newCompiler(t *compiler.Translator) driver.Compiler { return NewCompiler(t) }
