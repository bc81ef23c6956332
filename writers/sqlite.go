package writers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Nydauron/skatescore/records"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// SQLiteWriter loads the flattened tables into a SQLite database. Tables
// are created untyped from the union of their rows' columns and widened
// when a later run brings new columns, such as a fifth jump.
type SQLiteWriter struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteWriter, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteWriter{db: db}, nil
}

func openDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (w *SQLiteWriter) WriteRun(ctx context.Context, run Run) error {
	tables := records.Flatten(run.Results, run.Registry, run.Panels)

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range records.TableNames {
		rows := tables[name]
		if len(rows) == 0 {
			continue
		}
		cols := tables.Columns(name)
		if err := ensureTable(ctx, tx, name, cols); err != nil {
			return err
		}
		if err := insertRows(ctx, tx, name, cols, rows); err != nil {
			return err
		}
		log.Debug().Str("table", name).Int("rows", len(rows)).Msg("wrote table")
	}
	return tx.Commit()
}

func ensureTable(ctx context.Context, tx *sql.Tx, table string, cols []string) error {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(table), strings.Join(quoted, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	existing, err := tableColumns(ctx, tx, table)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if _, ok := existing[c]; ok {
			continue
		}
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", quote(table), quote(c))
		if _, err := tx.ExecContext(ctx, alter); err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", table, c, err)
		}
	}
	return nil
}

func tableColumns(ctx context.Context, tx *sql.Tx, table string) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quote(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]struct{}{}
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = struct{}{}
	}
	return cols, rows.Err()
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, cols []string, rows []map[string]any) error {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	for _, row := range rows {
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = sqlValue(row[c])
		}
		query, args, err := squirrel.Insert(quote(table)).Columns(quoted...).Values(values...).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// sqlValue stores scores as REAL rather than the decimal's text form.
func sqlValue(v any) any {
	switch d := v.(type) {
	case decimal.Decimal:
		return d.InexactFloat64()
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		return d.Decimal.InexactFloat64()
	}
	return v
}

func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}
