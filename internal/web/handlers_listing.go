package web

import (
	"net/http"

	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/logging"
	"github.com/JonMunkholm/fmcsa/internal/nav"
	"github.com/JonMunkholm/fmcsa/internal/table"
	"github.com/JonMunkholm/fmcsa/internal/web/templates"
)

// handleListing renders the sorted, paginated table.
func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	snap, err := s.snapshot(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	vm := table.NewWithState(snap.Records, st)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ListingPage(s.listingData(vm, snap)).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render listing", "error", err)
	}
}

// listingData turns the view-model into template input. Every link carries
// the full view state so the page can be bookmarked.
func (s *Server) listingData(vm *table.ViewModel, snap *core.Snapshot) templates.ListingData {
	st := vm.State()
	from, to := vm.Range()

	d := templates.ListingData{
		Title:      s.layout.Title,
		Columns:    make([]templates.Column, len(s.layout.Columns)),
		EmptyRows:  min(vm.EmptyRows(), vm.PageSize()),
		From:       from,
		To:         to,
		Total:      vm.TotalRows(),
		Page:       vm.Page() + 1,
		PageCount:  vm.PageCount(),
		RefreshURL: listingURL(st) + "&refresh=1",
		Flagged:    snap.Stats.Flagged,
	}

	primary := st.Primary()
	secondary, hasSecondary := st.Secondary()
	for i, c := range s.layout.Columns {
		col := templates.Column{
			Key:     c.Key,
			Label:   c.Label,
			Numeric: c.Numeric,
			SortURL: listingURL(st.WithSort(c.Key)),
		}
		switch {
		case c.Key == primary.Key:
			col.SortDir, col.Level = string(primary.Dir), 1
		case hasSecondary && c.Key == secondary.Key:
			col.SortDir, col.Level = string(secondary.Dir), 2
		}
		d.Columns[i] = col
	}

	visible := vm.VisibleRows()
	d.Rows = make([]templates.Row, len(visible))
	for i, rec := range visible {
		row := templates.Row{ID: rec.ID(), Cells: make([]string, len(s.layout.Columns))}
		if row.ID != "" {
			row.Href = nav.DetailPath(row.ID)
		}
		for j, c := range s.layout.Columns {
			row.Cells[j] = rec.Get(c.Key)
		}
		d.Rows[i] = row
	}

	if vm.HasPrev() {
		d.PrevURL = listingURL(st.WithPage(st.Page - 1))
	}
	if vm.HasNext() {
		d.NextURL = listingURL(st.WithPage(st.Page + 1))
	}

	d.Sizes = make([]templates.PageSizeLink, len(table.PageSizes))
	for i, size := range table.PageSizes {
		link := templates.PageSizeLink{Size: size, Active: size == st.Size}
		if next, err := st.WithPageSize(size); err == nil {
			link.URL = listingURL(next)
		}
		d.Sizes[i] = link
	}

	return d
}

func listingURL(st table.State) string {
	return nav.RootPath + "?" + st.Query().Encode()
}
