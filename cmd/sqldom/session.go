package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bawdo/sqldom"
	"github.com/bawdo/sqldom/driver"
	"github.com/bawdo/sqldom/managers"
	"github.com/bawdo/sqldom/nodes"
	"github.com/bawdo/sqldom/plugins/softdelete"
	"github.com/bawdo/sqldom/visitors"
)

var (
	errNoQuery      = errors.New("no query defined (use 'from <table>' first)")
	errNotConnected = errors.New("not connected (use 'connect <dsn>' first)")
)

// Session is the state of one interactive builder: the registered tables,
// the query being built and the dialect it is compiled for.
type Session struct {
	out    io.Writer
	logger *slog.Logger
	cfg    driver.Config
	sd     *driver.StorageDriver

	tables       map[string]*nodes.TableRef
	query        *managers.SelectManager
	softDelete   *softdelete.SoftDelete // nil when off
	parameterize bool
	paramSeq     int

	conn   *driver.Connection  // nil when disconnected
	schema map[string][]string // table -> columns of the connected database

	commands []commandEntry
}

// NewSession creates a session compiling for cfg's provider.
func NewSession(cfg driver.Config, logger *slog.Logger, out io.Writer) (*Session, error) {
	sd, err := newStorageDriver(&cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &Session{
		out:    out,
		logger: logger,
		cfg:    cfg,
		sd:     sd,
		tables: make(map[string]*nodes.TableRef),
	}
	s.initCommands()
	return s, nil
}

// Execute parses and runs a single command line.
func (s *Session) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(ctx, strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler(ctx, "")
		}
	}
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", strings.Fields(line)[0])
}

// Close releases the connection, if any.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn, s.schema = nil, nil
	return err
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, "  "+format+"\n", args...)
}

// build returns the current query with the enabled plugins applied, and
// the predicates the plugins added.
func (s *Session) build() (*nodes.Select, []nodes.Node, error) {
	if s.query == nil {
		return nil, nil, errNoQuery
	}
	sel, err := s.query.Build()
	if err != nil {
		return nil, nil, err
	}
	if s.softDelete == nil {
		return sel, nil, nil
	}
	before := sel.Where()
	if sel, err = s.softDelete.TransformSelect(sel); err != nil {
		return nil, nil, err
	}
	return sel, addedPredicates(before, sel.Where()), nil
}

// addedPredicates walks the AND spine of after down to before and returns
// the right-hand sides found on the way.
func addedPredicates(before, after nodes.Expression) []nodes.Node {
	var out []nodes.Node
	for after != nil && after != before {
		b, ok := after.(*nodes.Binary)
		if !ok || b.NodeType() != nodes.OpAnd {
			out = append(out, after)
			break
		}
		out = append(out, b.Right)
		after = b.Left
	}
	return out
}

// GenerateSQL compiles the current query for the session's dialect.
func (s *Session) GenerateSQL() (string, []any, error) {
	sel, _, err := s.build()
	if err != nil {
		return "", nil, err
	}
	res, err := s.sd.Compile(sel)
	if err != nil {
		return "", nil, err
	}
	return res.Text, res.Args(), nil
}

// --- Command handlers ---

func (s *Session) cmdTable(args string) error {
	fields := strings.Fields(args)
	switch len(fields) {
	case 1:
		s.tables[fields[0]] = sqldom.NewTable(fields[0])
		s.printf("Registered table %q", fields[0])
	case 2:
		s.tables[fields[1]] = sqldom.NewTable(fields[0]).As(fields[1])
		s.printf("Registered table %q as %q", fields[0], fields[1])
	default:
		return errors.New("usage: table <name> [alias]")
	}
	return nil
}

func (s *Session) cmdTables() error {
	if len(s.tables) == 0 {
		s.printf("No tables registered")
		return nil
	}
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if t := s.tables[name]; t.Alias != "" {
			s.printf("%s -> %s", name, t.Name)
		} else {
			s.printf("%s", name)
		}
	}
	return nil
}

// table returns the registered table, registering it on first use.
func (s *Session) table(name string) *nodes.TableRef {
	t, ok := s.tables[name]
	if !ok {
		t = sqldom.NewTable(name)
		s.tables[name] = t
	}
	return t
}

func (s *Session) cmdFrom(args string) error {
	if args == "" || strings.ContainsAny(args, " \t") {
		return errors.New("usage: from <table>")
	}
	s.query = sqldom.NewSelect(s.table(args))
	s.paramSeq = 0
	s.printf("Query FROM %q", args)
	return nil
}

func (s *Session) cmdSelect(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var projs []nodes.Expression
	for _, part := range splitTopLevelCommas(args) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := s.parseProjection(part)
		if err != nil {
			return err
		}
		projs = append(projs, p)
	}
	if len(projs) == 0 {
		return errors.New("usage: select <expr>[, <expr>...]")
	}
	s.query.Select(projs...)
	s.printf("Projections set (%d columns)", len(projs))
	return nil
}

func (s *Session) cmdDistinct() error {
	if s.query == nil {
		return errNoQuery
	}
	s.query.Distinct()
	s.printf("DISTINCT enabled")
	return nil
}

func (s *Session) cmdWhere(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	cond, err := s.parseExpression(args)
	if err != nil {
		return fmt.Errorf("where: %w", err)
	}
	s.query.Where(cond)
	s.printf("WHERE condition added")
	return nil
}

func (s *Session) cmdHaving(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	cond, err := s.parseExpression(args)
	if err != nil {
		return fmt.Errorf("having: %w", err)
	}
	s.query.Having(cond)
	s.printf("HAVING condition added")
	return nil
}

func (s *Session) cmdJoin(args string, jt nodes.JoinType) error {
	if s.query == nil {
		return errNoQuery
	}
	lower := strings.ToLower(args)
	i := strings.Index(lower, " on ")
	if i < 0 {
		return errors.New("usage: join <table> on <condition>")
	}
	name := strings.TrimSpace(args[:i])
	t := s.table(name)
	cond, err := s.parseExpression(args[i+len(" on "):])
	if err != nil {
		return fmt.Errorf("join: %w", err)
	}
	s.query.Join(t, jt).On(cond)
	s.printf("%s %q added", jt, name)
	return nil
}

func (s *Session) cmdGroup(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var cols []nodes.Expression
	for _, part := range strings.Split(args, ",") {
		col, err := s.resolveColRef(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		cols = append(cols, col)
	}
	s.query.Group(cols...)
	s.printf("GROUP BY set (%d columns)", len(cols))
	return nil
}

func (s *Session) cmdOrder(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	var orders []*nodes.Order
	for _, part := range strings.Split(args, ",") {
		o, err := s.parseOrder(part)
		if err != nil {
			return err
		}
		orders = append(orders, o)
	}
	s.query.Order(orders...)
	s.printf("ORDER BY added (%d columns)", len(orders))
	return nil
}

func (s *Session) cmdLimit(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := strconv.Atoi(args)
	if err != nil || n < 0 {
		return fmt.Errorf("limit: expected a non-negative integer, got %q", args)
	}
	s.query.Limit(n)
	s.printf("LIMIT %d", n)
	return nil
}

func (s *Session) cmdOffset(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	n, err := strconv.Atoi(args)
	if err != nil || n < 0 {
		return fmt.Errorf("offset: expected a non-negative integer, got %q", args)
	}
	s.query.Offset(n)
	s.printf("OFFSET %d", n)
	return nil
}

func (s *Session) cmdSQL() error {
	text, args, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	s.printf("%s;", text)
	if len(args) > 0 {
		s.printf("Params: %v", args)
	}
	return nil
}

// cmdDot prints the query tree as Graphviz DOT, or writes it to a file.
// Predicates added by plugins are drawn in their own cluster.
func (s *Session) cmdDot(args string) error {
	sel, added, err := s.build()
	if err != nil {
		return err
	}
	dv := visitors.NewDotVisitor()
	dv.Walk(sel)
	if len(added) > 0 {
		dv.Cluster("softdelete", "#999999", added...)
	}
	dot := dv.ToDot()

	if args == "" {
		_, err := io.WriteString(s.out, dot)
		return err
	}
	if err := os.WriteFile(args, []byte(dot), 0o600); err != nil {
		return fmt.Errorf("write DOT file: %w", err)
	}
	s.printf("Wrote DOT to %s (%d nodes)", args, dv.NodeCount())
	return nil
}

func (s *Session) cmdDialect(args string) error {
	if args == "" {
		info := s.sd.ServerInfo()
		s.printf("%s %s", s.cfg.Provider, info.Version)
		return nil
	}
	fields := strings.Fields(args)
	if len(fields) > 2 {
		return errors.New("usage: dialect <provider> [version]")
	}
	cfg := s.cfg
	cfg.Provider, cfg.ForcedServerVersion = fields[0], ""
	if len(fields) == 2 {
		cfg.ForcedServerVersion = fields[1]
	}
	sd, err := newStorageDriver(&cfg, s.logger)
	if err != nil {
		return err
	}
	if s.conn != nil && cfg.Provider != s.cfg.Provider {
		s.printf("Warning: connected to %s, exec will fail", s.cfg.Provider)
	}
	s.cfg, s.sd = cfg, sd
	s.printf("Dialect: %s %s", cfg.Provider, sd.ServerInfo().Version)
	return nil
}

func (s *Session) cmdSoftDelete(args string) error {
	switch strings.ToLower(args) {
	case "off":
		s.softDelete = nil
		s.printf("softdelete disabled")
	case "":
		s.softDelete = softdelete.New()
		s.printf("softdelete enabled (column deleted_at)")
	default:
		s.softDelete = softdelete.New(softdelete.WithColumn(args))
		s.printf("softdelete enabled (column %s)", args)
	}
	return nil
}

func (s *Session) cmdParameterize() error {
	s.parameterize = !s.parameterize
	if s.parameterize {
		s.printf("Parameterized values ON (applies to conditions added from now on)")
	} else {
		s.printf("Parameterized values OFF")
	}
	return nil
}

func (s *Session) cmdConnect(ctx context.Context, dsn string) error {
	cfg := s.cfg
	if dsn != "" {
		cfg.DSN = dsn
	}
	if cfg.DSN == "" {
		return errors.New("usage: connect <dsn>")
	}
	if err := s.Close(); err != nil {
		s.logger.Warn("closing previous connection", "error", err)
	}

	sd, conn, err := sqldom.Connect(ctx, &cfg, s.logger)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.cfg, s.sd, s.conn = cfg, sd, conn
	s.printf("Connected to %s %s (%s)", cfg.Provider, sd.ServerInfo().Version, sanitizeDSN(cfg.DSN))

	if err := s.loadSchema(ctx); err != nil {
		s.logger.Warn("schema introspection failed", "error", err)
	}
	return nil
}

// loadSchema caches table and column names of the connected database
// for completion.
func (s *Session) loadSchema(ctx context.Context) error {
	res, err := s.sd.Extract(ctx, s.conn.DB, []driver.ExtractionTask{{}})
	if err != nil {
		return err
	}
	s.schema = make(map[string][]string)
	for _, cat := range res.Catalogs {
		for _, sch := range cat.Schemas.Items() {
			for _, t := range sch.Tables.Items() {
				cols := make([]string, 0, len(t.Columns.Items()))
				for _, c := range t.Columns.Items() {
					cols = append(cols, c.Name)
				}
				s.schema[t.Name] = cols
			}
		}
	}
	s.logger.Debug("schema loaded", "tables", len(s.schema))
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errNotConnected
	}
	if err := s.Close(); err != nil {
		return err
	}
	s.printf("Disconnected")
	return nil
}

func (s *Session) cmdExec(ctx context.Context) error {
	if s.conn == nil {
		return errNotConnected
	}
	text, args, err := s.GenerateSQL()
	if err != nil {
		return err
	}
	s.printf("%s;", text)
	if len(args) > 0 {
		s.printf("Params: %v", args)
	}

	rows, err := s.conn.DB.QueryContext(ctx, text, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	result, err := formatRows(rows)
	if err != nil {
		return err
	}
	_, err = io.WriteString(s.out, result)
	return err
}

func (s *Session) cmdReset() error {
	s.query = nil
	s.paramSeq = 0
	s.printf("Query cleared")
	return nil
}
