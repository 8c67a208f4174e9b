// Package detail builds the single-record view.
package detail

import (
	"github.com/JonMunkholm/fmcsa/internal/core"
	"github.com/JonMunkholm/fmcsa/internal/schema"
)

// Status is the lifecycle of a detail view.
type Status int

const (
	Loading Status = iota
	Ready
	NotFound
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Item is one labelled value. Fallback is set when Value came from the
// layout's fallback text rather than the record.
type Item struct {
	Key      string
	Label    string
	Value    string
	Fallback bool
}

// Section is a titled group of items.
type Section struct {
	Title string
	Items []Item
}

// View is everything a front-end needs to render the detail page.
type View struct {
	Status   Status
	ID       string
	Name     string // legal name, for headings
	Sections []Section
	Err      error // set when Status is Failed
}

// Build looks up the first record with the given id and lays it out.
// A nil layout uses schema.Default.
func Build(records []core.Record, id string, layout *schema.Layout) View {
	for _, rec := range records {
		if rec.ID() == id {
			return FromRecord(rec, layout)
		}
	}
	return View{Status: NotFound, ID: id}
}

// FromRecord lays out rec.
func FromRecord(rec core.Record, layout *schema.Layout) View {
	if layout == nil {
		layout = schema.Default()
	}

	v := View{
		Status:   Ready,
		ID:       rec.ID(),
		Name:     rec.Get(core.FieldLegalName),
		Sections: make([]Section, 0, len(layout.Sections)),
	}
	for _, s := range layout.Sections {
		sec := Section{Title: s.Title, Items: make([]Item, 0, len(s.Fields))}
		for _, f := range s.Fields {
			item := Item{Key: f.Key, Label: f.Label, Value: rec.Get(f.Key)}
			if item.Value == "" && f.Fallback != "" {
				item.Value = f.Fallback
				item.Fallback = true
			}
			sec.Items = append(sec.Items, item)
		}
		v.Sections = append(v.Sections, sec)
	}
	return v
}

// InFlight is the view shown while the dataset is loading.
func InFlight(id string) View {
	return View{Status: Loading, ID: id}
}

// Failure is the view shown when the dataset could not be loaded.
func Failure(id string, err error) View {
	return View{Status: Failed, ID: id, Err: err}
}

// Value returns the displayed value for key, searching every section.
func (v View) Value(key string) (string, bool) {
	for _, s := range v.Sections {
		for _, it := range s.Items {
			if it.Key == key {
				return it.Value, true
			}
		}
	}
	return "", false
}
