package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

// Querier is the read side of *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads the dataset from a table, one record per row. Column names
// are the field names and every value is read in Postgres text format, so
// records hold the same strings a CSV export of the table would.
type Postgres struct {
	db       Querier
	table    string
	orderBy  string
	required []string
}

// NewPostgres returns a source reading table (optionally schema-qualified,
// "schema.table"). orderBy, when set, names the column defining input order;
// otherwise row order is whatever the server returns.
func NewPostgres(db Querier, table, orderBy string, required []string) *Postgres {
	return &Postgres{db: db, table: table, orderBy: orderBy, required: required}
}

// Name identifies the source in logs and status output.
func (p *Postgres) Name() string {
	return "postgres:" + p.table
}

// Load runs the select and converts every row.
func (p *Postgres) Load(ctx context.Context) ([]core.Record, core.LoadStats, error) {
	var stats core.LoadStats

	rows, err := p.db.Query(ctx, p.query(), pgx.QueryResultFormats{pgx.TextFormatCode})
	if err != nil {
		return nil, stats, fmt.Errorf("%w: query %s: %w", core.ErrSourceUnavailable, p.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	if len(fields) == 0 {
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, stats, fmt.Errorf("%w: query %s: %w", core.ErrSourceUnavailable, p.table, err)
		}
	}
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	if p.required != nil {
		if err := core.CheckHeader(header, p.required); err != nil {
			return nil, stats, err
		}
	}

	var records []core.Record
	for rows.Next() {
		raw := rows.RawValues()
		rec := make(core.Record, len(header))
		for i, name := range header {
			if i >= len(raw) || raw[i] == nil {
				continue // NULL reads as a missing field
			}
			rec[name] = string(raw[i])
		}
		if rec.ID() == "" {
			stats.Flagged++
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, stats, fmt.Errorf("%w: read %s: %w", core.ErrSourceUnavailable, p.table, err)
	}

	stats.Rows = len(records)
	return records, stats, nil
}

func (p *Postgres) query() string {
	q := "SELECT * FROM " + pgx.Identifier(strings.Split(p.table, ".")).Sanitize()
	if p.orderBy != "" {
		q += " ORDER BY " + pgx.Identifier{p.orderBy}.Sanitize()
	}
	return q
}
