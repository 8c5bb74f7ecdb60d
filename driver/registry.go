package driver

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/bawdo/sqldom/sqlerr"
)

// Well-known provider names.
const (
	ProviderSqlServer  = "sqlserver"
	ProviderMySQL      = "mysql"
	ProviderSQLite     = "sqlite"
	ProviderPostgreSQL = "postgresql"
	ProviderOracle     = "oracle"
	ProviderFirebird   = "firebird"
)

// VersionFactory builds the driver for servers of version Min and later,
// up to the next registered version.
type VersionFactory struct {
	Min Version
	New func(info ServerInfo) *SqlDriver
}

// Provider describes one database vendor.
type Provider struct {
	Name string
	// DriverName is the database/sql driver used to open connections, or
	// "" when no Go driver is linked in.
	DriverName string
	// VersionQuery returns the server version banner as a single string.
	VersionQuery  string
	DefaultSchema string
	// MultipleDatabases mirrors ServerInfo.MultipleDatabases.
	MultipleDatabases bool
	Versions          []VersionFactory
}

// Latest returns the newest version the provider knows.
func (p *Provider) Latest() Version {
	return p.Versions[len(p.Versions)-1].Min
}

// Driver builds the driver for server version v.
func (p *Provider) Driver(v Version) (*SqlDriver, error) {
	i := sort.Search(len(p.Versions), func(i int) bool { return v.Less(p.Versions[i].Min) }) - 1
	if i < 0 {
		return nil, sqlerr.NotSupported(fmt.Sprintf("%s %s", p.Name, v))
	}
	info := ServerInfo{Version: v, DefaultSchema: p.DefaultSchema, MultipleDatabases: p.MultipleDatabases}
	d := p.Versions[i].New(info)
	d.DriverName = p.DriverName
	return d, nil
}

// DetectVersion asks the server for its version.
func (p *Provider) DetectVersion(ctx context.Context, q Queryer) (Version, error) {
	if p.VersionQuery == "" {
		return p.Latest(), nil
	}
	rows, err := q.QueryContext(ctx, p.VersionQuery)
	if err != nil {
		return Version{}, fmt.Errorf("%s version: %w", p.Name, err)
	}
	defer func() { _ = rows.Close() }()
	var banner string
	if rows.Next() {
		if err := rows.Scan(&banner); err != nil {
			return Version{}, fmt.Errorf("%s version: %w", p.Name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return Version{}, fmt.Errorf("%s version: %w", p.Name, err)
	}
	return ParseVersion(banner)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Provider{}
)

// Register adds or replaces a provider. Dialect packages call it from init.
func Register(p *Provider) {
	if p.Name == "" || len(p.Versions) == 0 {
		panic("sqldom: provider needs a name and at least one version")
	}
	slices.SortFunc(p.Versions, func(a, b VersionFactory) int {
		switch {
		case a.Min.Less(b.Min):
			return -1
		case b.Min.Less(a.Min):
			return 1
		}
		return 0
	})
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Name] = p
}

// Lookup returns the provider registered under name.
func Lookup(name string) (*Provider, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("provider %q is not registered", name)
	}
	return p, nil
}

// Providers returns the registered provider names in sorted order.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the driver for provider name at the given version
// string. An empty version selects the newest layer.
func Resolve(name, version string) (*SqlDriver, error) {
	p, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	v := p.Latest()
	if version != "" {
		if v, err = ParseVersion(version); err != nil {
			return nil, err
		}
	}
	return p.Driver(v)
}
