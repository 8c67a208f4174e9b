package table

import "github.com/JonMunkholm/fmcsa/internal/core"

// ViewModel is the table view over a fixed list of rows.
//
// It holds only the view State; the rows slice is never modified. Every read
// recomputes the sorted order from scratch. A ViewModel is not safe for
// concurrent mutation; each view owns its own.
type ViewModel struct {
	rows  []core.Record
	state State
}

// New returns a ViewModel over rows with DefaultState.
func New(rows []core.Record) *ViewModel {
	return NewWithState(rows, DefaultState())
}

// NewWithState returns a ViewModel over rows starting from st.
func NewWithState(rows []core.Record, st State) *ViewModel {
	if st.Size == 0 {
		st.Size = DefaultPageSize
	}
	return &ViewModel{rows: rows, state: st.clone()}
}

// State returns a copy of the current view parameters.
func (vm *ViewModel) State() State {
	return vm.state.clone()
}

// SetSort applies a column-header click (see State.WithSort).
func (vm *ViewModel) SetSort(key string) {
	vm.state = vm.state.WithSort(key)
}

// SetSecondarySort sets or clears the tie-breaker sort.
func (vm *ViewModel) SetSecondarySort(key string, dir Direction) {
	vm.state = vm.state.WithSecondary(key, dir)
}

// SetPage sets the page index. No clamping is applied.
func (vm *ViewModel) SetPage(page int) {
	vm.state = vm.state.WithPage(page)
}

// SetPageSize sets rows per page and resets the page index to 0.
func (vm *ViewModel) SetPageSize(size int) error {
	st, err := vm.state.WithPageSize(size)
	if err != nil {
		return err
	}
	vm.state = st
	return nil
}

// Sort returns the primary sort level.
func (vm *ViewModel) Sort() SortSpec {
	return vm.state.Primary()
}

// Page returns the zero-based page index.
func (vm *ViewModel) Page() int {
	return vm.state.Page
}

// PageSize returns rows per page.
func (vm *ViewModel) PageSize() int {
	return vm.state.Size
}

// TotalRows returns the number of rows in the full list.
func (vm *ViewModel) TotalRows() int {
	return len(vm.rows)
}

// PageCount returns the number of pages needed to show every row (at least 1).
func (vm *ViewModel) PageCount() int {
	if vm.state.Size <= 0 || len(vm.rows) == 0 {
		return 1
	}
	return (len(vm.rows) + vm.state.Size - 1) / vm.state.Size
}

// Sorted returns a freshly sorted copy of every row.
func (vm *ViewModel) Sorted() []core.Record {
	return StableSort(vm.rows, Comparator(vm.state.Sorts...))
}

// VisibleRows returns the current window: the sorted rows sliced to
// [page*size, page*size+size). Its length is
// max(0, min(size, total-page*size)).
func (vm *ViewModel) VisibleRows() []core.Record {
	sorted := vm.Sorted()

	start := vm.state.Offset()
	if start >= len(sorted) || start < 0 {
		return []core.Record{}
	}
	end := min(start+vm.state.Size, len(sorted))
	return sorted[start:end]
}

// EmptyRows is the number of blank filler rows needed to keep the layout
// height of a full page. It is zero on the first page and is never part of
// VisibleRows.
func (vm *ViewModel) EmptyRows() int {
	if vm.state.Page <= 0 {
		return 0
	}
	return max(0, vm.state.Offset()+vm.state.Size-len(vm.rows))
}

// HasNext reports whether a page exists after the current one.
func (vm *ViewModel) HasNext() bool {
	start := vm.state.Offset()
	return start >= 0 && start < len(vm.rows)-vm.state.Size
}

// HasPrev reports whether a page exists before the current one.
func (vm *ViewModel) HasPrev() bool {
	return vm.state.Page > 0
}

// Range returns the 1-based first and last row numbers shown, or 0, 0 for an
// empty window.
func (vm *ViewModel) Range() (from, to int) {
	start := vm.state.Offset()
	if start < 0 || start >= len(vm.rows) {
		return 0, 0
	}
	return start + 1, min(start+vm.state.Size, len(vm.rows))
}
