package source

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

// fakeRows is an in-memory pgx.Rows over text-format values.
type fakeRows struct {
	fields []string
	data   [][][]byte
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }
func (r *fakeRows) Scan(...any) error             { return errors.New("not implemented") }
func (r *fakeRows) Values() ([]any, error)        { return nil, errors.New("not implemented") }
func (r *fakeRows) RawValues() [][]byte           { return r.data[r.pos-1] }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.fields))
	for i, name := range r.fields {
		fds[i] = pgconn.FieldDescription{Name: name}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

type fakeQuerier struct {
	rows    *fakeRows
	err     error
	lastSQL string
	args    []any
}

func (q *fakeQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.lastSQL = sql
	q.args = args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestPostgres_Load(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{
		fields: []string{"id", "legal_name", "dba_name"},
		data: [][][]byte{
			{[]byte("1"), []byte("ACME"), nil},
			{[]byte("2"), []byte("BETA"), []byte("B TRUCKS")},
		},
	}}

	src := NewPostgres(q, "public.fmcsa_records", "id", []string{core.FieldID, core.FieldLegalName})
	records, stats, err := src.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `SELECT * FROM "public"."fmcsa_records" ORDER BY "id"`, q.lastSQL)
	assert.Equal(t, []any{pgx.QueryResultFormats{pgx.TextFormatCode}}, q.args)

	_, hasDBA := records[0][core.FieldDBAName]
	assert.False(t, hasDBA, "NULL reads as missing")
	assert.Equal(t, "B TRUCKS", records[1].Get(core.FieldDBAName))
	assert.Equal(t, 2, stats.Rows)
	assert.True(t, q.rows.closed)
	assert.Equal(t, "postgres:public.fmcsa_records", src.Name())
}

func TestPostgres_MissingColumns(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{fields: []string{"id"}}}

	_, _, err := NewPostgres(q, "fmcsa_records", "", []string{core.FieldID, core.FieldLegalName}).Load(context.Background())

	var schemaErr *core.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{core.FieldLegalName}, schemaErr.Missing)
	assert.Equal(t, `SELECT * FROM "fmcsa_records"`, q.lastSQL)
}

func TestPostgres_QueryErrorIsUnavailable(t *testing.T) {
	q := &fakeQuerier{err: errors.New("dial tcp: connection refused")}

	_, _, err := NewPostgres(q, "fmcsa_records", "", nil).Load(context.Background())

	require.ErrorIs(t, err, core.ErrSourceUnavailable)
}

func TestPostgres_RowsErrorIsUnavailable(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{
		fields: []string{"id"},
		data:   [][][]byte{{[]byte("1")}},
		err:    errors.New("conn closed"),
	}}

	_, _, err := NewPostgres(q, "fmcsa_records", "", nil).Load(context.Background())

	require.ErrorIs(t, err, core.ErrSourceUnavailable)
}
