// Package driver binds a dialect translator, its compiler and its schema
// extractor into an SqlDriver, keeps the registry of dialect providers and
// offers the StorageDriver facade the ORM layer talks to.
package driver

import (
	"context"
	"database/sql"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/model"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
)

// Compiler renders statements for one dialect. Implementations are not
// safe for concurrent use; SqlDriver creates one per compilation.
type Compiler interface {
	Compile(stmt nodes.Statement, cfg compiler.Configuration) (*compiler.Result, error)
}

// Queryer is the part of *sql.DB, *sql.Conn and *sql.Tx extractors use.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ExtractionTask names a catalog to read. An empty Schema reads every
// schema of the catalog.
type ExtractionTask struct {
	Catalog string
	Schema  string
}

// ExtractionResult holds the catalogs read from a server.
type ExtractionResult struct {
	Catalogs []*model.Catalog
}

// Extractor reads schema models from a live connection.
type Extractor interface {
	Extract(ctx context.Context, q Queryer, tasks []ExtractionTask) (*ExtractionResult, error)
}

// ServerInfo describes the server a driver was built for.
type ServerInfo struct {
	Version       Version
	DefaultSchema string
	// MultipleDatabases is set when one connection can reach objects of
	// other catalogs through three-part names.
	MultipleDatabases bool
}

// SqlDriver is a translator, a compiler factory and an extractor for one
// provider version.
type SqlDriver struct {
	Provider string
	// DriverName is the database/sql driver connections are opened with.
	DriverName  string
	Info        ServerInfo
	Translator  *compiler.Translator
	newCompiler func(*compiler.Translator) Compiler
	extractor   Extractor
}

// NewSqlDriver assembles a driver. x may be nil for providers without
// schema extraction.
func NewSqlDriver(provider string, info ServerInfo, t *compiler.Translator,
	newCompiler func(*compiler.Translator) Compiler, x Extractor) *SqlDriver {
	return &SqlDriver{Provider: provider, Info: info, Translator: t, newCompiler: newCompiler, extractor: x}
}

// Compile renders stmt with a fresh compiler.
func (d *SqlDriver) Compile(stmt nodes.Statement, cfg compiler.Configuration) (*compiler.Result, error) {
	return d.newCompiler(d.Translator).Compile(stmt, cfg)
}

// Extract reads the requested catalogs.
func (d *SqlDriver) Extract(ctx context.Context, q Queryer, tasks []ExtractionTask) (*ExtractionResult, error) {
	if d.extractor == nil {
		return nil, sqlerr.NotImplemented(d.Provider + " schema extraction")
	}
	return d.extractor.Extract(ctx, q, tasks)
}
