package table

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

func TestParseState(t *testing.T) {
	def := DefaultState()

	tests := []struct {
		name    string
		query   string
		want    State
		wantErr bool
	}{
		{
			name:  "empty query uses defaults",
			query: "",
			want:  def,
		},
		{
			name:  "single sort with direction",
			query: "sort=legal_name&dir=asc&page=3&size=100",
			want:  State{Sorts: []SortSpec{{Key: "legal_name", Dir: Asc}}, Page: 2, Size: 100},
		},
		{
			name:  "two sort levels",
			query: "sort=entity_type,legal_name&dir=desc,asc",
			want: State{Sorts: []SortSpec{
				{Key: "entity_type", Dir: Desc},
				{Key: "legal_name", Dir: Asc},
			}, Page: 0, Size: 50},
		},
		{
			name:  "extra sort levels ignored",
			query: "sort=a,b,c&dir=desc,desc,desc",
			want:  State{Sorts: []SortSpec{{Key: "a", Dir: Desc}, {Key: "b", Dir: Desc}}, Size: 50},
		},
		{
			name:  "missing direction defaults to asc",
			query: "sort=a,b&dir=desc",
			want:  State{Sorts: []SortSpec{{Key: "a", Dir: Desc}, {Key: "b", Dir: Asc}}, Size: 50},
		},
		{
			name:  "duplicate key collapsed",
			query: "sort=a,a&dir=desc,asc",
			want:  State{Sorts: []SortSpec{{Key: "a", Dir: Desc}}, Size: 50},
		},
		{
			name:  "garbage page means first page",
			query: "page=abc",
			want:  def,
		},
		{
			name:  "zero page means first page",
			query: "page=0",
			want:  def,
		},
		{
			name:  "huge page is capped",
			query: "page=4611686018427387905&size=50",
			want:  State{Sorts: def.Sorts, Page: MaxPage(50), Size: 50},
		},
		{
			name:    "size outside allowed set",
			query:   "size=25",
			wantErr: true,
		},
		{
			name:    "non-numeric size",
			query:   "size=lots",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseState(q, def)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPageSize)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestState_QueryRoundTrip(t *testing.T) {
	st := State{
		Sorts: []SortSpec{{Key: core.FieldPowerUnits, Dir: Desc}, {Key: core.FieldLegalName, Dir: Asc}},
		Page:  4,
		Size:  200,
	}

	q := st.Query()
	assert.Equal(t, "power_units,legal_name", q.Get("sort"))
	assert.Equal(t, "desc,asc", q.Get("dir"))
	assert.Equal(t, "5", q.Get("page"))
	assert.Equal(t, "200", q.Get("size"))

	back, err := ParseState(q, DefaultState())
	require.NoError(t, err)
	assert.Equal(t, st, back)
}

func TestState_WithSortDoesNotAliasOriginal(t *testing.T) {
	st := DefaultState()

	flipped := st.WithSort(core.FieldCreatedDT)

	assert.Equal(t, Desc, st.Primary().Dir)
	assert.Equal(t, Asc, flipped.Primary().Dir)
}

func TestState_WithPageSize(t *testing.T) {
	st := DefaultState().WithPage(6)

	next, err := st.WithPageSize(500)
	require.NoError(t, err)
	assert.Equal(t, 0, next.Page)
	assert.Equal(t, 500, next.Size)

	same, err := st.WithPageSize(7)
	require.ErrorIs(t, err, ErrPageSize)
	assert.Equal(t, st, same)
}

func TestState_Restrict(t *testing.T) {
	valid := func(k string) bool { return k == core.FieldLegalName }

	st := State{Sorts: []SortSpec{{Key: "bogus", Dir: Desc}, {Key: core.FieldLegalName, Dir: Desc}}, Size: 50}
	got := st.Restrict(valid, DefaultSort)
	assert.Equal(t, []SortSpec{{Key: core.FieldLegalName, Dir: Desc}}, got.Sorts)

	none := State{Sorts: []SortSpec{{Key: "bogus", Dir: Asc}}, Size: 50}
	assert.Equal(t, []SortSpec{DefaultSort}, none.Restrict(valid, DefaultSort).Sorts)
}

func TestIsAllowedPageSize(t *testing.T) {
	for _, n := range []int{50, 100, 200, 500, 1000} {
		assert.True(t, IsAllowedPageSize(n), n)
	}
	for _, n := range []int{0, 1, 49, 250, 2000, -50} {
		assert.False(t, IsAllowedPageSize(n), n)
	}
}

func TestState_OffsetNeverOverflows(t *testing.T) {
	for _, size := range PageSizes {
		st := State{Page: math.MaxInt, Size: size}
		assert.GreaterOrEqual(t, st.Offset(), 0, "size %d", size)
		assert.GreaterOrEqual(t, st.Offset()+size, st.Offset(), "size %d", size)
	}
	assert.Equal(t, MaxPage(100), DefaultState().WithPage(math.MaxInt).Page)
}
