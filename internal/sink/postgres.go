package sink

// postgres.go loads a cleaned table into PostgreSQL.
//
// The destination table is dropped and recreated from the table's columns
// inside one transaction, then filled with the COPY protocol (~10-100x
// faster than row-by-row INSERT). Any failure rolls the transaction back, so
// a previous version of the table survives a failed run.
//
// Column types follow the column kind:
//   - Numeric     -> double precision
//   - Categorical -> text
//
// Missing cells become NULL.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/csvclean/internal/core"
	"github.com/JonMunkholm/csvclean/internal/logging"
)

// TxBeginner starts transactions. Satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresSink writes tables into PostgreSQL. dest is a table name,
// optionally schema-qualified ("staging.customers").
type PostgresSink struct {
	db TxBeginner

	// Lazy connection, used when created with DialPostgresSink
	connString string
	timeout    time.Duration
	once       sync.Once
	pool       *pgxpool.Pool
	dialErr    error
}

// NewPostgresSink creates a sink over an existing pool or connection.
func NewPostgresSink(db TxBeginner) *PostgresSink {
	return &PostgresSink{db: db}
}

// DialPostgresSink creates a sink that connects on its first Save, so a run
// that fails before the save stage never touches the database.
func DialPostgresSink(connString string, timeout time.Duration) *PostgresSink {
	return &PostgresSink{connString: connString, timeout: timeout}
}

// Close releases a pool opened by DialPostgresSink.
func (s *PostgresSink) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Save replaces table dest with the contents of t.
func (s *PostgresSink) Save(ctx context.Context, t *core.Table, dest string) error {
	ident, err := tableIdentifier(dest)
	if err != nil {
		return core.SinkError(dest, err)
	}

	db, err := s.conn(ctx)
	if err != nil {
		return core.SinkError(dest, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident.Sanitize()); err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to drop table: %w", err))
	}
	if _, err := tx.Exec(ctx, createTableSQL(ident, t)); err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to create table: %w", err))
	}

	n, err := tx.CopyFrom(ctx, ident, t.Header(), pgx.CopyFromRows(copyRows(t)))
	if err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to copy rows: %w", err))
	}
	if n != int64(t.NumRows()) {
		return core.SinkError(dest, fmt.Errorf("copied %d rows, expected %d", n, t.NumRows()))
	}

	if err := tx.Commit(ctx); err != nil {
		return core.SinkError(dest, fmt.Errorf("failed to commit transaction: %w", err))
	}

	logging.FromContext(ctx).Debug("sink written", "table", dest, "rows", n)
	return nil
}

// conn returns the configured database, dialing it once if needed.
func (s *PostgresSink) conn(ctx context.Context) (TxBeginner, error) {
	if s.db != nil {
		return s.db, nil
	}

	s.once.Do(func() {
		dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		pool, err := pgxpool.New(dialCtx, s.connString)
		if err != nil {
			s.dialErr = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
		if err := pool.Ping(dialCtx); err != nil {
			pool.Close()
			s.dialErr = fmt.Errorf("failed to ping database: %w", err)
			return
		}
		s.pool = pool
	})
	if s.dialErr != nil {
		return nil, s.dialErr
	}
	return s.pool, nil
}

// tableIdentifier splits "schema.table" into a quoted identifier.
func tableIdentifier(dest string) (pgx.Identifier, error) {
	parts := strings.Split(strings.TrimSpace(dest), ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid table name %q", dest)
	}
	for _, p := range parts {
		if p == "" {
			return nil, errors.New("table name must not be empty")
		}
	}
	return pgx.Identifier(parts), nil
}

// createTableSQL returns the CREATE TABLE statement for t.
func createTableSQL(ident pgx.Identifier, t *core.Table) string {
	kinds := t.Kinds()
	cols := make([]string, len(kinds))
	for i, name := range t.Header() {
		cols[i] = pgx.Identifier{name}.Sanitize() + " " + pgColumnType(kinds[i])
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", ident.Sanitize(), strings.Join(cols, ", "))
}

func pgColumnType(k core.ColumnKind) string {
	if k == core.KindNumeric {
		return "double precision"
	}
	return "text"
}

// copyRows converts t to COPY values in column order.
func copyRows(t *core.Table) [][]any {
	kinds := t.Kinds()
	rows := make([][]any, t.NumRows())
	for r := range rows {
		cells := t.Row(r)
		row := make([]any, len(cells))
		for c, cell := range cells {
			if kinds[c] == core.KindNumeric {
				row[c] = toPgFloat8(cell)
			} else {
				row[c] = toPgText(cell)
			}
		}
		rows[r] = row
	}
	return rows
}

// toPgFloat8 converts a numeric cell to pgtype.Float8.
// Returns invalid (NULL) for Missing or unparseable cells.
func toPgFloat8(c core.Cell) pgtype.Float8 {
	switch c.Kind {
	case core.CellNumber:
		return pgtype.Float8{Float64: c.Num, Valid: true}
	case core.CellText:
		if v, ok := core.ParseNumber(c.Text); ok {
			return pgtype.Float8{Float64: v, Valid: true}
		}
	}
	return pgtype.Float8{Valid: false}
}

// toPgText converts a cell to pgtype.Text.
// Returns invalid (NULL) for Missing cells.
func toPgText(c core.Cell) pgtype.Text {
	if c.IsMissing() {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: c.String(), Valid: true}
}
