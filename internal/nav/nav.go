// Package nav maps between views and URL paths.
//
// There are two views: the listing at "/" and a record's detail at "/{id}".
// Any other path falls back to the listing.
package nav

import (
	"net/url"
	"strings"
)

// RootPath is the listing.
const RootPath = "/"

// Kind identifies a view.
type Kind int

const (
	Listing Kind = iota
	Detail
)

func (k Kind) String() string {
	if k == Detail {
		return "detail"
	}
	return "listing"
}

// Route is a resolved view.
type Route struct {
	Kind Kind
	ID   string // set for Detail
}

// Path returns the URL path of the route.
func (r Route) Path() string {
	if r.Kind == Detail {
		return DetailPath(r.ID)
	}
	return RootPath
}

// DetailPath returns the path of the record with the given id. The id is
// escaped as a single path segment. An empty id is the listing.
func DetailPath(id string) string {
	return RootPath + url.PathEscape(id)
}

// Parse resolves a URL path. A single non-empty segment is a detail route;
// everything else, including unparsable escapes, is the listing.
func Parse(path string) Route {
	seg := strings.TrimPrefix(path, "/")
	if seg == "" || strings.Contains(seg, "/") {
		return Route{Kind: Listing}
	}
	id, err := url.PathUnescape(seg)
	if err != nil || id == "" {
		return Route{Kind: Listing}
	}
	return Route{Kind: Detail, ID: id}
}

// Navigator tracks the current view for front-ends without a URL bar.
// It is not safe for concurrent use.
type Navigator struct {
	current Route
}

// NewNavigator starts on the listing.
func NewNavigator() *Navigator {
	return &Navigator{}
}

// GoToDetail opens the record with the given id. An empty id stays on the
// listing, matching DetailPath.
func (n *Navigator) GoToDetail(id string) Route {
	n.current = Parse(DetailPath(id))
	return n.current
}

// GoBack returns to the listing.
func (n *Navigator) GoBack() Route {
	n.current = Route{Kind: Listing}
	return n.current
}

// Current returns the active route.
func (n *Navigator) Current() Route {
	return n.current
}
