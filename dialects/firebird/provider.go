package firebird

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/driver"
)

func init() {
	driver.Register(&driver.Provider{
		Name: driver.ProviderFirebird,
		// connections are opened by the caller
		DriverName:   "",
		VersionQuery: "SELECT rdb$get_context('SYSTEM', 'ENGINE_VERSION') FROM rdb$database",
		Versions: []driver.VersionFactory{
			{Min: driver.V(2, 5), New: driverFor(2)},
			{Min: driver.V(4, 0), New: driverFor(4)},
		},
	})
}

// driverFor returns a driver without an extractor; Extract reports
// sqlerr.ErrNotImplemented.
func driverFor(major int) func(driver.ServerInfo) *driver.SqlDriver {
	return func(info driver.ServerInfo) *driver.SqlDriver {
		return driver.NewSqlDriver(driver.ProviderFirebird, info, NewTranslator(major), newCompiler, nil)
	}
}

func newCompiler(t *compiler.Translator) driver.Compiler { return NewCompiler(t) }
