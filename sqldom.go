// Package sqldom provides a SQL expression model with per-dialect
// translation for SQL Server, MySQL, SQLite, PostgreSQL, Oracle and
// Firebird.
//
// This package re-exports commonly used types and functions from subpackages
// for convenience and links every dialect in. Advanced users can import
// subpackages directly:
//   - github.com/bawdo/sqldom/managers (statement builders)
//   - github.com/bawdo/sqldom/nodes (expression model)
//   - github.com/bawdo/sqldom/compiler (SQL generation)
//   - github.com/bawdo/sqldom/driver (providers and the storage facade)
//   - github.com/bawdo/sqldom/plugins (statement transformers)
package sqldom

import (
	"context"
	"log/slog"

	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/managers"
	"github.com/bawdo/sqldom/nodes"

	_ "github.com/bawdo/sqldom/dialects/firebird"
	_ "github.com/bawdo/sqldom/dialects/mysql"
	_ "github.com/bawdo/sqldom/dialects/oracle"
	_ "github.com/bawdo/sqldom/dialects/postgresql"
	_ "github.com/bawdo/sqldom/dialects/sqlite"
	_ "github.com/bawdo/sqldom/dialects/sqlserver"
)

// --- Manager Types ---

// SelectManager provides a fluent API for building SELECT queries.
type SelectManager = managers.SelectManager

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager = managers.InsertManager

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager = managers.UpdateManager

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager = managers.DeleteManager

// --- Manager Constructors ---

// NewSelect creates a new SelectManager with the given table as FROM.
func NewSelect(from nodes.Table) *managers.SelectManager {
	return managers.NewSelectManager(from)
}

// NewInsert creates a new InsertManager for inserting into the given table.
func NewInsert(into *nodes.TableRef) *managers.InsertManager {
	return managers.NewInsertManager(into)
}

// NewUpdate creates a new UpdateManager for updating the given table.
func NewUpdate(table *nodes.TableRef) *managers.UpdateManager {
	return managers.NewUpdateManager(table)
}

// NewDelete creates a new DeleteManager for deleting from the given table.
func NewDelete(from *nodes.TableRef) *managers.DeleteManager {
	return managers.NewDeleteManager(from)
}

// --- Core Node Types ---

// Table is a table reference usable in FROM, INSERT, UPDATE and DELETE.
type Table = nodes.TableRef

// Column is a column reference (e.g., table.column).
type Column = nodes.Column

// Node is the base interface all model nodes implement.
type Node = nodes.Node

// --- Common Node Constructors ---

// NewTable creates a new table reference.
func NewTable(name string, columns ...string) *nodes.TableRef {
	return nodes.NewTable(name, columns...)
}

// Literal creates a literal rendered inline by the dialect.
func Literal(value any) *nodes.Literal {
	return nodes.NewLiteral(value)
}

// Param creates a named parameter (e.g., @name, $1, ?).
func Param(name string, value any) *nodes.Parameter {
	return nodes.NewParameter(name, value)
}

// Star creates an unqualified star (*) for SELECT *.
func Star() *nodes.Column {
	return nodes.Star()
}

// --- Aggregate Functions ---

// Count creates a COUNT(expr) aggregate; nil counts rows.
func Count(expr nodes.Expression) *nodes.Aggregate {
	return nodes.Count(expr)
}

// CountDistinct creates a COUNT(DISTINCT expr) aggregate.
func CountDistinct(expr nodes.Expression) *nodes.Aggregate {
	return nodes.NewAggregate(nodes.OpCount, expr, true)
}

// Sum creates a SUM(expr) aggregate.
func Sum(expr nodes.Expression) *nodes.Aggregate {
	return nodes.Sum(expr)
}

// Avg creates an AVG(expr) aggregate.
func Avg(expr nodes.Expression) *nodes.Aggregate {
	return nodes.Avg(expr)
}

// Min creates a MIN(expr) aggregate.
func Min(expr nodes.Expression) *nodes.Aggregate {
	return nodes.Min(expr)
}

// Max creates a MAX(expr) aggregate.
func Max(expr nodes.Expression) *nodes.Aggregate {
	return nodes.Max(expr)
}

// --- Drivers ---

// StorageDriver compiles statements for one provider version and opens
// connections to it.
type StorageDriver = driver.StorageDriver

// Config is the storage configuration.
type Config = driver.Config

// Dialect returns a storage driver for provider at version, without a
// connection. An empty version selects the newest one.
func Dialect(provider, version string, opts ...driver.Option) (*driver.StorageDriver, error) {
	d, err := driver.Resolve(provider, version)
	if err != nil {
		return nil, err
	}
	return driver.NewStorageDriver(d, driver.Config{Provider: provider}, opts...)
}

// Connect opens cfg.DSN and returns the storage driver for the server's
// version together with the open connection.
func Connect(ctx context.Context, cfg *Config, logger *slog.Logger) (*driver.StorageDriver, *driver.Connection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return driver.Connect(ctx, cfg, driver.WithLogger(logger))
}

// Providers lists the linked-in dialects.
func Providers() []string {
	return driver.Providers()
}
