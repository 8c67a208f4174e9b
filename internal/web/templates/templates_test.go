package templates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/detail"
)

func renderString(t *testing.T, fn func(b *strings.Builder) error) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, fn(&b))
	return b.String()
}

func TestLayout(t *testing.T) {
	html := renderString(t, func(b *strings.Builder) error {
		return Layout("<Title>", "FMSCA viewer", ErrorAlert("boom", "", "")).Render(context.Background(), b)
	})

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>&lt;Title&gt;</title>")
	assert.Contains(t, html, `<a class="brand" href="/">FMSCA viewer</a>`)
	assert.Contains(t, html, "boom")
	assert.True(t, strings.HasSuffix(html, "</html>"))
}

func TestErrorAlert(t *testing.T) {
	html := renderString(t, func(b *strings.Builder) error {
		return ErrorAlert("Dataset <down>", "Try again", "SRC001").Render(context.Background(), b)
	})

	assert.Contains(t, html, "Dataset &lt;down&gt;")
	assert.Contains(t, html, "Try again")
	assert.Contains(t, html, "Code: SRC001")
}

func TestListingTable(t *testing.T) {
	d := ListingData{
		Title: "FMSCA viewer",
		Columns: []Column{
			{Key: "created_dt", Label: "Created date", SortURL: "/?sort=created_dt&dir=asc", SortDir: "desc", Level: 1},
			{Key: "power_units", Label: "Power units", Numeric: true, SortURL: "/?sort=power_units"},
		},
		Rows: []Row{
			{ID: "1", Href: "/1", Cells: []string{"2024-01-01", "5"}},
			{ID: "", Cells: []string{"2024-01-02", "<b>"}},
		},
		EmptyRows: 3,
		From:      51, To: 52, Total: 52,
		Page: 2, PageCount: 2,
		PrevURL: "/?page=1",
		Sizes: []PageSizeLink{
			{Size: 50, URL: "/?size=50", Active: true},
			{Size: 100, URL: "/?size=100"},
		},
		Flagged: 1,
	}

	html := renderString(t, func(b *strings.Builder) error {
		return ListingTable(d).Render(context.Background(), b)
	})

	assert.Contains(t, html, `aria-sort="descending"`)
	assert.Contains(t, html, `href="/?sort=created_dt&amp;dir=asc"`)
	assert.Contains(t, html, `<a href="/1">2024-01-01</a>`)
	assert.Contains(t, html, `<tr class="flagged">`)
	assert.Contains(t, html, "&lt;b&gt;")
	assert.Contains(t, html, `style="height: 159px"`)
	assert.Contains(t, html, `<strong>50</strong>`)
	assert.Contains(t, html, `<a href="/?size=100">100</a>`)
	assert.Contains(t, html, `rel="prev"`)
	assert.NotContains(t, html, `rel="next"`)
	assert.Contains(t, html, "51&ndash;52 of 52")
	assert.Contains(t, html, "1 record(s) have no id")
	assert.Contains(t, html, `<th scope="col" class="numeric"><a href="/?sort=power_units">Power units</a></th>`)
	assert.Contains(t, html, `<span class="sort-indicator" data-level="1">▼</span>`)
}

func TestListingTable_EmptyPage(t *testing.T) {
	html := renderString(t, func(b *strings.Builder) error {
		return ListingTable(ListingData{Columns: []Column{{Key: "a"}}, Page: 1, PageCount: 1}).Render(context.Background(), b)
	})
	assert.Contains(t, html, "No records on this page.")
	assert.NotContains(t, html, "filler")
}

func TestDetailCard(t *testing.T) {
	ready := detail.FromRecord(core.Record{
		core.FieldID:        "42",
		core.FieldLegalName: "ACME & SONS",
	}, nil)

	tests := []struct {
		name string
		view detail.View
		msg  core.UserMessage
		want []string
	}{
		{
			name: "ready",
			view: ready,
			want: []string{"USDOT INFORMATION", "COMPANY INFORMATION", "ACME &amp; SONS", `<dd class="fallback">N/A</dd>`},
		},
		{
			name: "not found",
			view: detail.Build(nil, "<x>", nil),
			want: []string{"No record with id <code>&lt;x&gt;</code> exists."},
		},
		{
			name: "failed",
			view: detail.Failure("1", errors.New("down")),
			msg:  core.MapError(core.ErrSourceUnavailable),
			want: []string{"The carrier dataset could not be loaded", "SRC001"},
		},
		{
			name: "loading",
			view: detail.InFlight("1"),
			want: []string{"Loading&hellip;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderString(t, func(b *strings.Builder) error {
				return DetailCard(tt.view, tt.msg).Render(context.Background(), b)
			})
			assert.Contains(t, html, `href="/">&larr; Back</a>`)
			for _, w := range tt.want {
				assert.Contains(t, html, w)
			}
		})
	}
}

func TestErrorPage(t *testing.T) {
	html := renderString(t, func(b *strings.Builder) error {
		return ErrorPage("FMSCA viewer", "Not found", "", "REC001").Render(context.Background(), b)
	})
	assert.Contains(t, html, "<title>Not found</title>")
	assert.Contains(t, html, "Code: REC001")
	assert.NotContains(t, html, "alert-action")
	assert.Contains(t, html, `<a class="button" href="/">Back to listing</a>`)
}

func TestRender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var b strings.Builder
	err := ListingTable(ListingData{}).Render(ctx, &b)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, b.String())
}

func TestDetailPage_Title(t *testing.T) {
	v := detail.FromRecord(core.Record{core.FieldID: "1", core.FieldLegalName: "ACME"}, nil)
	html := renderString(t, func(b *strings.Builder) error {
		return DetailPage("FMSCA viewer", v, core.UserMessage{}).Render(context.Background(), b)
	})
	assert.Contains(t, html, "<title>ACME | FMSCA viewer</title>")
}
