// Package templates renders the viewer's HTML pages. The *.templ files are
// the source; *_templ.go is generated with `templ generate`.
package templates

import (
	"strconv"

	"github.com/JonMunkholm/fmcsa/internal/detail"
)

//go:generate templ generate

// filler row height in px, one per missing row
const rowHeight = 53

// Column is a listing header cell.
type Column struct {
	Key     string
	Label   string
	Numeric bool
	SortURL string
	SortDir string // "asc", "desc" or "" when not sorted by this column
	Level   int    // 1 for primary, 2 for tie-breaker, 0 otherwise
}

// Row is one listing row. Href is empty for records without an id.
type Row struct {
	ID    string
	Href  string
	Cells []string
}

// PageSizeLink is one rows-per-page choice.
type PageSizeLink struct {
	Size   int
	URL    string
	Active bool
}

// ListingData is everything the listing page shows.
type ListingData struct {
	Title      string
	Columns    []Column
	Rows       []Row
	EmptyRows  int
	From, To   int
	Total      int
	Page       int // 1-based
	PageCount  int
	PrevURL    string
	NextURL    string
	Sizes      []PageSizeLink
	RefreshURL string
	Flagged    int
}

func ariaSort(dir string) string {
	if dir == "desc" {
		return "descending"
	}
	return "ascending"
}

func sortArrow(dir string) string {
	if dir == "desc" {
		return "▼"
	}
	return "▲"
}

func fillerStyle(rows int) string {
	return "height: " + strconv.Itoa(rowHeight*rows) + "px"
}

func isNumeric(cols []Column, i int) bool {
	return i < len(cols) && cols[i].Numeric
}

func detailTitle(heading string, v detail.View) string {
	if v.Name == "" {
		return heading
	}
	return v.Name + " | " + heading
}
