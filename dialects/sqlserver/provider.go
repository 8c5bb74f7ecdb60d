package sqlserver

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/driver"
)

func init() {
	driver.Register(&driver.Provider{
		Name: driver.ProviderSqlServer,
		// no SQL Server database/sql driver is linked in; connections
		// are opened by the caller
		DriverName:        "",
		VersionQuery:      "SELECT CAST(SERVERPROPERTY('ProductVersion') AS nvarchar(128))",
		DefaultSchema:     DefaultSchema,
		MultipleDatabases: true,
		Versions: []driver.VersionFactory{
			{Min: driver.V(9, 0), New: driverFor(9)},
			{Min: driver.V(10, 0), New: driverFor(10)},
			{Min: driver.V(11, 0), New: driverFor(11)},
		},
	})
}

// driverFor returns the factory of the layer chain introduced by major.
func driverFor(major int) func(driver.ServerInfo) *driver.SqlDriver {
	return func(info driver.ServerInfo) *driver.SqlDriver {
		return driver.NewSqlDriver(driver.ProviderSqlServer, info, NewTranslator(major), newCompiler, NewExtractor(major))
	}
}

func newCompiler(t *compiler.Translator) driver.Compiler { return NewCompiler(t) }
