package tui

import (
	"fmt"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/detail"
	"github.com/JonMunkholm/fmcsa/internal/nav"
	"github.com/JonMunkholm/fmcsa/internal/table"
)

// syncTable refreshes headers and rows after a sort or data change.
func (m *Model) syncTable() {
	m.syncColumns()
	m.syncRows(true)
}

// syncColumns rebuilds the headers: sort arrows and the selected column.
func (m *Model) syncColumns() {
	st := m.vm.State()
	primary := st.Primary()
	secondary, hasSecondary := st.Secondary()
	rows := m.vm.VisibleRows()

	cols := make([]btable.Column, len(m.layout.Columns))
	for i, c := range m.layout.Columns {
		title := c.Label
		switch {
		case c.Key == primary.Key:
			title += " " + arrow(primary.Dir)
		case hasSecondary && c.Key == secondary.Key:
			title += " " + arrow(secondary.Dir) + "2"
		}
		if i == m.col {
			title = "[" + title + "]"
		}

		width := lipgloss.Width(title)
		for _, rec := range rows {
			width = max(width, lipgloss.Width(rec.Get(c.Key)))
		}
		cols[i] = btable.Column{Title: title, Width: min(width, maxColumnWidth)}
	}
	m.tbl.SetColumns(cols)
}

// syncRows loads the current page into the table widget.
func (m *Model) syncRows(resetCursor bool) {
	visible := m.vm.VisibleRows()
	rows := make([]btable.Row, len(visible))
	for i, rec := range visible {
		row := make(btable.Row, len(m.layout.Columns))
		for j, c := range m.layout.Columns {
			row[j] = rec.Get(c.Key)
		}
		rows[i] = row
	}
	m.tbl.SetRows(rows)
	if resetCursor {
		m.tbl.SetCursor(0)
	}
}

func arrow(d table.Direction) string {
	if d == table.Desc {
		return "▼"
	}
	return "▲"
}

// View renders the active view.
func (m Model) View() string {
	route := m.nav.Current()

	header := titleStyle.Render(m.layout.Title) + " " + mutedStyle.Render(m.statusLine())

	var body string
	if route.Kind == nav.Detail {
		body = m.detailView(route.ID)
	} else {
		body = m.listingView()
	}

	footer := footerStyle.Render(m.help.View(viewKeys{keyMap: m.keys, detail: route.Kind == nav.Detail}))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) statusLine() string {
	switch {
	case m.loading:
		return "loading…"
	case m.snap != nil:
		return fmt.Sprintf("%d records · %s", m.snap.Len(), m.snap.LoadedAt.Format("2006-01-02 15:04:05"))
	default:
		return ""
	}
}

func (m Model) listingView() string {
	if m.snap == nil {
		if m.err != nil {
			return errorView(m.err)
		}
		return "\n  Loading…\n"
	}

	var b strings.Builder
	if m.err != nil {
		b.WriteString(errorView(m.err))
		b.WriteString("\n")
	}
	b.WriteString(m.tbl.View())
	b.WriteString("\n")

	from, to := m.vm.Range()
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d–%d of %d · page %d/%d · %d per page",
		from, to, m.vm.TotalRows(), m.vm.Page()+1, m.vm.PageCount(), m.vm.PageSize())))
	if n := m.snap.Stats.Flagged; n > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" · %d without id", n)))
	}
	return b.String()
}

func (m Model) detailView(id string) string {
	var v detail.View
	switch {
	case m.snap != nil:
		v = detail.Build(m.snap.Records, id, m.layout)
	case m.err != nil:
		v = detail.Failure(id, m.err)
	default:
		v = detail.InFlight(id)
	}

	var b strings.Builder
	switch v.Status {
	case detail.Loading:
		b.WriteString("\n  Loading…\n")
	case detail.Failed:
		b.WriteString(errorView(v.Err))
	case detail.NotFound:
		b.WriteString(errorView(fmt.Errorf("%w: %s", core.ErrRecordNotFound, id)))
	case detail.Ready:
		for _, s := range v.Sections {
			b.WriteString(sectionStyle.Render(s.Title))
			b.WriteString("\n")
			for _, it := range s.Items {
				value := it.Value
				if it.Fallback {
					value = mutedStyle.Render(value)
				}
				b.WriteString(labelStyle.Render(it.Label+":") + " " + value + "\n")
			}
		}
	}
	return b.String()
}

func errorView(err error) string {
	return errorStyle.Render("\n  " + core.FormatUserError(err) + "\n")
}
