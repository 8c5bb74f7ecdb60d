package oracle

import (
	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/driver"
)

func init() {
	driver.Register(&driver.Provider{
		Name: driver.ProviderOracle,
		// connections are opened by the caller
		DriverName:   "",
		VersionQuery: "SELECT version FROM product_component_version WHERE product LIKE 'Oracle%' AND ROWNUM = 1",
		Versions: []driver.VersionFactory{
			{Min: driver.V(9, 0), New: driverFor(9)},
			{Min: driver.V(11, 0), New: driverFor(11)},
			{Min: driver.V(12, 0), New: driverFor(12)},
		},
	})
}

// driverFor returns a driver without an extractor; Extract reports
// sqlerr.ErrNotImplemented.
func driverFor(major int) func(driver.ServerInfo) *driver.SqlDriver {
	return func(info driver.ServerInfo) *driver.SqlDriver {
		return driver.NewSqlDriver(driver.ProviderOracle, info, NewTranslator(major), newCompiler, nil)
	}
}

func newCompiler(t *compiler.Translator) driver.Compiler { return NewCompiler(t) }
