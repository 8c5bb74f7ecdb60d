package mysql

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/driver"
)

func init() {
	driver.Register(&driver.Provider{
		Name:         driver.ProviderMySQL,
		DriverName:   "mysql",
		VersionQuery: "SELECT VERSION()",
		Versions: []driver.VersionFactory{
			{Min: driver.V(5, 0), New: driverFor(Version50)},
			{Min: driver.V(5, 6), New: driverFor(Version56)},
			{Min: driver.V(5, 7), New: driverFor(Version57)},
			{Min: driver.V(8, 0), New: driverFor(Version80)},
		},
	})
}

func driverFor(v Version) func(driver.ServerInfo) *driver.SqlDriver {
	return func(info driver.ServerInfo) *driver.SqlDriver {
		return driver.NewSqlDriver(driver.ProviderMySQL, info, NewTranslator(v), newCompiler, NewExtractor())
	}
}

func newCompiler(t *compiler.Translator) driver.Compiler { return NewCompiler(t) }
