// Package postgres implements [store.Store] on PostgreSQL through
// database/sql and the pgx driver.
//
// Statements are generated from the record's field names with sorted,
// quoted column lists and positional placeholders. The package never
// creates tables; schema management belongs to the application's migration
// tooling.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"go.uber.org/zap"

	"github.com/hasbyte1/go-modelbase/store"
)

// DBTX is the subset of database/sql used by the store. Both *sql.DB and
// *sql.Tx satisfy it, so callers can run the store inside a transaction
// they own.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Options configures a [Store].
type Options struct {
	// Logger receives generated statements at debug level. Argument values
	// are never logged. Nil disables logging.
	Logger *zap.Logger
}

// Store is a PostgreSQL-backed [store.Store].
type Store struct {
	db  DBTX
	log *zap.Logger
}

// New wraps an open database handle.
func New(db DBTX, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, log: log}
}

// Open opens a connection pool for dsn through the pgx driver and verifies
// it with a ping.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// Find returns the records matching filter, shaped by opts.
func (s *Store) Find(ctx context.Context, collection string, filter store.Record, opts store.FindOptions) ([]store.Record, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %s", quoteIdent(collection))

	args := make([]any, 0, len(filter))
	for i, name := range sortedKeys(filter) {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, filter[name])
		fmt.Fprintf(&b, "%s = $%d", quoteIdent(name), len(args))
	}

	if len(opts.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, key := range opts.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			dir := "ASC"
			name := key
			if strings.HasPrefix(key, "-") {
				dir = "DESC"
				name = key[1:]
			}
			fmt.Fprintf(&b, "%s %s", quoteIdent(name), dir)
		}
	}
	if opts.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", opts.Offset)
	}

	query := b.String()
	s.log.Debug("postgres find", zap.String("query", query))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: find: %w", err)
	}
	defer rows.Close()

	out := []store.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: find: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: find: %w", err)
	}
	return out, nil
}

// Get returns the record with the given id, or [store.ErrNotFound].
func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1",
		quoteIdent(collection), quoteIdent(store.IDField))
	s.log.Debug("postgres get", zap.String("query", query))

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: get: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("postgres: get: %w", err)
		}
		return nil, store.ErrNotFound
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: get: %w", err)
	}
	return rec, nil
}

// Insert writes a new row, generating a UUID id when attrs carries none.
func (s *Store) Insert(ctx context.Context, collection string, attrs store.Record) (string, error) {
	rec := make(store.Record, len(attrs)+1)
	for name, value := range attrs {
		rec[name] = value
	}
	id, _ := rec[store.IDField].(string)
	if id == "" {
		id = uuid.NewString()
		rec[store.IDField] = id
	}

	names := sortedKeys(rec)
	cols := make([]string, len(names))
	marks := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		cols[i] = quoteIdent(name)
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = rec[name]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(collection), strings.Join(cols, ", "), strings.Join(marks, ", "))
	s.log.Debug("postgres insert", zap.String("query", query))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("postgres: insert: %w", err)
	}
	return id, nil
}

// Update patches the row with the given id, writing only the fields present
// in attrs.
func (s *Store) Update(ctx context.Context, collection, id string, attrs store.Record) error {
	names := make([]string, 0, len(attrs))
	for _, name := range sortedKeys(attrs) {
		if name != store.IDField {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		// Nothing to write; still report a missing target.
		_, err := s.Get(ctx, collection, id)
		return err
	}

	sets := make([]string, len(names))
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		args = append(args, attrs[name])
		sets[i] = fmt.Sprintf("%s = $%d", quoteIdent(name), len(args))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		quoteIdent(collection), strings.Join(sets, ", "), quoteIdent(store.IDField), len(args))
	s.log.Debug("postgres update", zap.String("query", query))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: update: %w", err)
	}
	return checkAffected(res, "update")
}

// Delete removes the row with the given id.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		quoteIdent(collection), quoteIdent(store.IDField))
	s.log.Debug("postgres delete", zap.String("query", query))

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres: delete: %w", err)
	}
	return checkAffected(res, "delete")
}

func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("postgres: %s: %w", op, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanRecord(rows *sql.Rows) (store.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(store.Record, len(cols))
	for i, name := range cols {
		// Text columns arrive as []byte from database/sql.
		if b, ok := values[i].([]byte); ok {
			rec[name] = string(b)
			continue
		}
		rec[name] = values[i]
	}
	return rec, nil
}

func sortedKeys(rec store.Record) []string {
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// quoteIdent quotes a SQL identifier; names come from schemas, not user
// input, but quoting keeps reserved words and mixed case working.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

var _ store.Store = (*Store)(nil)
