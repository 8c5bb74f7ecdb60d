package driver

import (
	"context"
	"database/sql"
	sqldriver "database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/bawdo/sqldom/compiler"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/sqlerr"
	"github.com/bawdo/sqldom/types"
)

// StorageDriver is the facade the ORM layer uses: it compiles statements
// with the storage configuration applied, extracts schemas with
// vendor-specific corrections and creates connections. It is immutable
// and safe for concurrent use.
type StorageDriver struct {
	driver    *SqlDriver
	config    Config
	logger    *slog.Logger
	typeNames sync.Map // reflect.Type -> string
}

// Option configures a StorageDriver.
type Option func(*StorageDriver)

// WithLogger sets the logger used for compile failures and fixups.
func WithLogger(l *slog.Logger) Option {
	return func(s *StorageDriver) { s.logger = l }
}

// NewStorageDriver wraps d. Connection handler types are checked here so
// that a misconfigured handler fails before any connection is opened.
func NewStorageDriver(d *SqlDriver, cfg Config, opts ...Option) (*StorageDriver, error) {
	if d == nil {
		return nil, sqlerr.Argument("driver", "must not be nil")
	}
	for _, t := range cfg.ConnectionHandlers {
		if _, err := factoryFor(t); err != nil {
			return nil, fmt.Errorf("configure storage driver: %w", err)
		}
	}
	s := &StorageDriver{driver: d, config: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Driver returns the underlying SqlDriver.
func (s *StorageDriver) Driver() *SqlDriver { return s.driver }

// ServerInfo returns the server the driver was built for.
func (s *StorageDriver) ServerInfo() ServerInfo { return s.driver.Info }

// Compile renders stmt. Objects are qualified with their catalog name
// when the storage is configured as multi-database.
func (s *StorageDriver) Compile(stmt nodes.Statement) (*compiler.Result, error) {
	res, err := s.driver.Compile(stmt, compiler.Configuration{DatabaseQualifiedObjects: s.config.IsMultidatabase})
	if err != nil {
		s.logger.Debug("compile failed", "provider", s.driver.Provider, "err", err)
		return nil, err
	}
	return res, nil
}

// Extract reads the requested catalogs and applies the provider fixups.
func (s *StorageDriver) Extract(ctx context.Context, q Queryer, tasks []ExtractionTask) (*ExtractionResult, error) {
	res, err := s.driver.Extract(ctx, q, tasks)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", s.driver.Provider, err)
	}
	s.fixExtractionResult(res)
	return res, nil
}

// ExtractResult is delivered by ExtractAsync.
type ExtractResult struct {
	Result *ExtractionResult
	Err    error
}

// ExtractAsync runs Extract in a goroutine. The channel receives exactly
// one value and is then closed.
func (s *StorageDriver) ExtractAsync(ctx context.Context, q Queryer, tasks []ExtractionTask) <-chan ExtractResult {
	out := make(chan ExtractResult, 1)
	go func() {
		defer close(out)
		res, err := s.Extract(ctx, q, tasks)
		out <- ExtractResult{Result: res, Err: err}
	}()
	return out
}

// BuildBatch joins statements into one command text.
func (s *StorageDriver) BuildBatch(statements []string) string {
	return strings.Join(statements, s.driver.Translator.Settings().BatchItemDelimiter)
}

// BuildParameterReference returns the placeholder text for a named
// parameter.
func (s *StorageDriver) BuildParameterReference(name string) string {
	return s.driver.Translator.Settings().ParameterPrefix + name
}

// TypeName returns the column type used for values of Go type t.
func (s *StorageDriver) TypeName(t reflect.Type) string {
	if name, ok := s.typeNames.Load(t); ok {
		return name.(string)
	}
	name, _ := s.typeNames.LoadOrStore(t, s.driver.Translator.GoTypeName(types.CodeOf(t)))
	return name.(string)
}

// CreateConnection returns an unopened connection carrying the storage
// connection settings and fresh handler instances.
func (s *StorageDriver) CreateConnection() (*Connection, error) {
	handlers, err := CreateConnectionHandlers(s.config.ConnectionHandlers)
	if err != nil {
		return nil, err
	}
	return newConnection(s.driver.DriverName, &s.config, handlers), nil
}

// Connect opens a connection for cfg and builds the storage driver for the
// forced or detected server version.
func Connect(ctx context.Context, cfg *Config, opts ...Option) (*StorageDriver, *Connection, error) {
	p, err := Lookup(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}
	handlers, err := CreateConnectionHandlers(cfg.ConnectionHandlers)
	if err != nil {
		return nil, nil, err
	}
	conn := newConnection(p.DriverName, cfg, handlers)
	if err := conn.Open(ctx); err != nil {
		return nil, nil, err
	}
	v, err := conn.ServerVersion(ctx, p)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	d, err := p.Driver(v)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	sd, err := NewStorageDriver(d, *cfg, opts...)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return sd, conn, nil
}

// ConnectionInfo holds the settings a connection is opened with.
type ConnectionInfo struct {
	DSN                         string
	ForcedServerVersion         string
	ConnectionInitializationSQL string
	EnsureConnectionIsAlive     bool
}

// Connection is a database handle together with its handlers.
type Connection struct {
	Info       ConnectionInfo
	DB         *sql.DB
	driverName string
	handlers   []ConnectionHandler
}

func newConnection(driverName string, cfg *Config, handlers []ConnectionHandler) *Connection {
	return &Connection{
		Info: ConnectionInfo{
			DSN:                         cfg.DSN,
			ForcedServerVersion:         cfg.ForcedServerVersion,
			ConnectionInitializationSQL: cfg.ConnectionInitializationSQL,
			EnsureConnectionIsAlive:     cfg.EnsureConnectionIsAlive,
		},
		driverName: driverName,
		handlers:   handlers,
	}
}

// Handlers returns the handler instances of the connection.
func (c *Connection) Handlers() []ConnectionHandler { return c.handlers }

// Open creates the pool and runs the handlers. The initialization SQL runs
// on every physical connection the pool opens, so the pool is pinged
// right away when there is any, as it is when EnsureConnectionIsAlive is
// set.
func (c *Connection) Open(ctx context.Context) error {
	if c.driverName == "" {
		return sqlerr.NotSupported("connections without a database/sql driver")
	}
	for _, h := range c.handlers {
		if err := h.ConnectionOpening(ctx, &c.Info); err != nil {
			return fmt.Errorf("connection handler: %w", err)
		}
	}
	db, err := c.openDB()
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	if c.Info.EnsureConnectionIsAlive || c.Info.ConnectionInitializationSQL != "" {
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("ping: %w", err)
		}
	}
	for _, h := range c.handlers {
		if err := h.ConnectionOpened(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("connection handler: %w", err)
		}
	}
	c.DB = db
	return nil
}

func (c *Connection) openDB() (*sql.DB, error) {
	init := c.Info.ConnectionInitializationSQL
	if init == "" {
		return sql.Open(c.driverName, c.Info.DSN)
	}
	probe, err := sql.Open(c.driverName, c.Info.DSN)
	if err != nil {
		return nil, err
	}
	drv := probe.Driver()
	_ = probe.Close()

	var base sqldriver.Connector = dsnConnector{dsn: c.Info.DSN, driver: drv}
	if dc, ok := drv.(sqldriver.DriverContext); ok {
		if base, err = dc.OpenConnector(c.Info.DSN); err != nil {
			return nil, err
		}
	}
	return sql.OpenDB(&initConnector{Connector: base, init: init}), nil
}

// dsnConnector adapts a driver without OpenConnector.
type dsnConnector struct {
	dsn    string
	driver sqldriver.Driver
}

func (c dsnConnector) Connect(context.Context) (sqldriver.Conn, error) { return c.driver.Open(c.dsn) }

func (c dsnConnector) Driver() sqldriver.Driver { return c.driver }

// initConnector runs init on each connection before the pool hands it out.
type initConnector struct {
	sqldriver.Connector
	init string
}

func (c *initConnector) Connect(ctx context.Context) (sqldriver.Conn, error) {
	conn, err := c.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if err := execConn(ctx, conn, c.init); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connection initialization: %w", err)
	}
	return conn, nil
}

func execConn(ctx context.Context, conn sqldriver.Conn, query string) error {
	if ex, ok := conn.(sqldriver.ExecerContext); ok {
		_, err := ex.ExecContext(ctx, query, nil)
		if !errors.Is(err, sqldriver.ErrSkip) {
			return err
		}
	}
	var (
		stmt sqldriver.Stmt
		err  error
	)
	if pc, ok := conn.(sqldriver.ConnPrepareContext); ok {
		stmt, err = pc.PrepareContext(ctx, query)
	} else {
		stmt, err = conn.Prepare(query)
	}
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	if sc, ok := stmt.(sqldriver.StmtExecContext); ok {
		_, err = sc.ExecContext(ctx, nil)
		return err
	}
	_, err = stmt.Exec(nil)
	return err
}

// ServerVersion returns the forced version or asks the server.
func (c *Connection) ServerVersion(ctx context.Context, p *Provider) (Version, error) {
	if c.Info.ForcedServerVersion != "" {
		return ParseVersion(c.Info.ForcedServerVersion)
	}
	if c.DB == nil {
		return Version{}, sqlerr.Argument("connection", "is not open")
	}
	return p.DetectVersion(ctx, c.DB)
}

// Close releases the pool.
func (c *Connection) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
