package table

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// ErrPageSize is returned for a page size outside PageSizes.
var ErrPageSize = errors.New("invalid page size")

// PageSizes are the allowed rows-per-page choices.
var PageSizes = []int{50, 100, 200, 500, 1000}

// DefaultPageSize is the initial rows-per-page.
const DefaultPageSize = 50

// IsAllowedPageSize reports whether n is one of PageSizes.
func IsAllowedPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// State holds the view parameters: sort levels and pagination.
// It is a value type; every With* method returns a modified copy.
type State struct {
	Sorts []SortSpec // Primary first, at most MaxSortLevels
	Page  int        // Zero-based page index
	Size  int        // Rows per page
}

// DefaultState is (created_dt, desc), first page, DefaultPageSize rows.
func DefaultState() State {
	return State{
		Sorts: []SortSpec{DefaultSort},
		Page:  0,
		Size:  DefaultPageSize,
	}
}

// Primary returns the primary sort level.
func (s State) Primary() SortSpec {
	if len(s.Sorts) == 0 {
		return SortSpec{}
	}
	return s.Sorts[0]
}

// Secondary returns the tie-breaker level, if any.
func (s State) Secondary() (SortSpec, bool) {
	if len(s.Sorts) < 2 {
		return SortSpec{}, false
	}
	return s.Sorts[1], true
}

// WithSort applies a column-header click. Clicking the current primary key
// flips its direction; clicking another key makes it primary ascending.
// The tie-breaker is kept unless it is the newly chosen key. The page index
// is left untouched.
func (s State) WithSort(key string) State {
	out := s.clone()
	primary := out.Primary()

	if primary.Key == key && key != "" {
		out.Sorts[0].Dir = primary.Dir.Flip()
		return out
	}

	sorts := []SortSpec{{Key: key, Dir: Asc}}
	if sec, ok := s.Secondary(); ok && sec.Key != key {
		sorts = append(sorts, sec)
	}
	out.Sorts = sorts
	return out
}

// WithSecondary sets the tie-breaker level. An empty key, or the primary
// key, clears it.
func (s State) WithSecondary(key string, dir Direction) State {
	out := s.clone()
	if len(out.Sorts) == 0 {
		out.Sorts = []SortSpec{DefaultSort}
	}
	out.Sorts = out.Sorts[:1]
	if key != "" && key != out.Sorts[0].Key {
		out.Sorts = append(out.Sorts, SortSpec{Key: key, Dir: dir})
	}
	return out
}

// WithPage sets the page index without clamping to the row count; an index
// past the end yields an empty window. Negative indices become 0 and
// indices above MaxPage become MaxPage.
func (s State) WithPage(page int) State {
	out := s.clone()
	if page < 0 {
		page = 0
	}
	out.Page = min(page, MaxPage(out.Size))
	return out
}

// WithPageSize sets the page size and resets the page index to 0.
func (s State) WithPageSize(size int) (State, error) {
	if !IsAllowedPageSize(size) {
		return s, fmt.Errorf("%w: %d", ErrPageSize, size)
	}
	out := s.clone()
	out.Size = size
	out.Page = 0
	return out, nil
}

// Restrict drops sort levels whose key is not valid. If no level remains the
// fallback becomes the primary sort.
func (s State) Restrict(valid func(key string) bool, fallback SortSpec) State {
	out := s.clone()
	kept := out.Sorts[:0]
	for _, spec := range out.Sorts {
		if valid(spec.Key) {
			kept = append(kept, spec)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, fallback)
	}
	out.Sorts = kept
	return out
}

// Offset returns the index of the first row on the current page.
// Page is capped at MaxPage(Size), so the page end never overflows.
func (s State) Offset() int {
	if s.Size <= 0 || s.Page <= 0 {
		return 0
	}
	return min(s.Page, MaxPage(s.Size)) * s.Size
}

// MaxPage is the largest page index whose end row still fits in an int.
// Any such page is past the end of every real dataset.
func MaxPage(size int) int {
	if size <= 0 {
		return math.MaxInt
	}
	return math.MaxInt/size - 1
}

// Query encodes the state as URL parameters. Pages are 1-based in URLs.
//
//	?sort=legal_name,created_dt&dir=asc,desc&page=3&size=100
func (s State) Query() url.Values {
	q := url.Values{}
	if len(s.Sorts) > 0 {
		keys := make([]string, len(s.Sorts))
		dirs := make([]string, len(s.Sorts))
		for i, spec := range s.Sorts {
			keys[i] = spec.Key
			dirs[i] = string(spec.Dir)
		}
		q.Set("sort", strings.Join(keys, ","))
		q.Set("dir", strings.Join(dirs, ","))
	}
	q.Set("page", strconv.Itoa(s.Page+1))
	q.Set("size", strconv.Itoa(s.Size))
	return q
}

// ParseState decodes URL parameters produced by Query. Missing parameters
// fall back to def. An unparsable or non-positive page means the first page.
// A page size outside PageSizes is an error wrapping ErrPageSize.
func ParseState(q url.Values, def State) (State, error) {
	st := def.clone()

	if sorts := parseSorts(q.Get("sort"), q.Get("dir")); len(sorts) > 0 {
		st.Sorts = sorts
	}

	st.Page = 0
	if v := q.Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 1 {
			st.Page = p - 1
		}
	}

	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !IsAllowedPageSize(n) {
			return def, fmt.Errorf("%w: %q", ErrPageSize, v)
		}
		st.Size = n
	}
	if st.Size == 0 {
		st.Size = DefaultPageSize
	}
	st.Page = min(st.Page, MaxPage(st.Size))

	return st, nil
}

// parseSorts parses comma-separated sort keys and directions.
// Format: sort=Column1,Column2&dir=asc,desc. Returns up to MaxSortLevels
// distinct keys; a missing direction means ascending.
func parseSorts(sortStr, dirStr string) []SortSpec {
	if sortStr == "" {
		return nil
	}

	cols := strings.Split(sortStr, ",")
	dirs := strings.Split(dirStr, ",")

	var sorts []SortSpec
	seen := make(map[string]bool)
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if col == "" || seen[col] {
			continue
		}
		seen[col] = true

		dir := Asc
		if i < len(dirs) {
			dir = ParseDirection(dirs[i])
		}
		sorts = append(sorts, SortSpec{Key: col, Dir: dir})
		if len(sorts) >= MaxSortLevels {
			break
		}
	}
	return sorts
}

func (s State) clone() State {
	s.Sorts = slices.Clone(s.Sorts)
	return s
}
