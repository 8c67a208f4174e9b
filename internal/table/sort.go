// Package table implements the sortable, paginated view over an in-memory
// list of carrier records.
//
// The full row list is the single source of truth. Sort and pagination are
// view parameters only: every read re-sorts a copy and slices it, so the
// window can never go stale and the input slice is never mutated.
package table

import (
	"sort"
	"strings"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// ParseDirection maps "desc" (any case) to Desc and anything else to Asc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortSpec is one sort level.
type SortSpec struct {
	Key string
	Dir Direction
}

// MaxSortLevels is the number of sort keys honoured (primary + tie-breaker).
const MaxSortLevels = 2

// DefaultSort is newest-created first.
var DefaultSort = SortSpec{Key: core.FieldCreatedDT, Dir: Desc}

// CompareFunc orders two records, returning a negative, zero or positive int.
type CompareFunc func(a, b core.Record) int

// Compare orders two records by the raw string value at key.
//
// Comparison is plain byte-wise lexicographic order, also for columns that
// look numeric or date-like ("10" sorts before "9"). A missing field is the
// empty string and therefore sorts first ascending.
func Compare(a, b core.Record, key string) int {
	return strings.Compare(a[key], b[key])
}

// Comparator builds a CompareFunc applying specs in order. Each level is
// only consulted when all previous levels tie. With no specs every pair
// ties.
func Comparator(specs ...SortSpec) CompareFunc {
	specs = append([]SortSpec(nil), specs...)
	return func(a, b core.Record) int {
		for _, s := range specs {
			c := Compare(a, b, s.Key)
			if c == 0 {
				continue
			}
			if s.Dir == Desc {
				return -c
			}
			return c
		}
		return 0
	}
}

// StableSort returns a sorted copy of rows. Rows that compare equal keep
// their original relative order: each row is decorated with its input index,
// ordered by (cmp, index) and then stripped.
func StableSort(rows []core.Record, cmp CompareFunc) []core.Record {
	type indexed struct {
		row core.Record
		idx int
	}

	decorated := make([]indexed, len(rows))
	for i, r := range rows {
		decorated[i] = indexed{row: r, idx: i}
	}

	sort.Slice(decorated, func(i, j int) bool {
		if c := cmp(decorated[i].row, decorated[j].row); c != 0 {
			return c < 0
		}
		return decorated[i].idx < decorated[j].idx
	})

	out := make([]core.Record, len(decorated))
	for i, d := range decorated {
		out[i] = d.row
	}
	return out
}
