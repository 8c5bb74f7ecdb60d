package sqlite

import (
	_ "modernc.org/sqlite"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/driver"
)

func init() {
	driver.Register(&driver.Provider{
		Name:          driver.ProviderSQLite,
		DriverName:    "sqlite",
		VersionQuery:  "SELECT sqlite_version()",
		DefaultSchema: DefaultSchema,
		Versions: []driver.VersionFactory{
			{Min: driver.V(3, 0), New: NewDriver},
		},
	})
}

// NewDriver returns the SQLite 3 driver.
func NewDriver(info driver.ServerInfo) *driver.SqlDriver {
	return driver.NewSqlDriver(driver.ProviderSQLite, info, NewTranslator(), newCompiler, Extractor{})
}

func newCompiler(t *compiler.Translator) driver.Compiler { return NewCompiler(t) }
