package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestMergeSources(t *testing.T) {
	static := []Entry{{ID: "s1", Date: "2025-12-19"}, {ID: "s2", Date: "2025-10-24"}}
	fetched := []Entry{{ID: "e1", Date: "2025-12-19"}, {ID: "s1", Date: "2025-12-19"}}

	all := MergeSources(static, fetched)
	assert.Equal(t, []string{"s1", "s2", "e1", "s1"}, ids(all), "concatenation, no dedupe, no sort")
	assert.Empty(t, MergeSources(nil, nil))
}

func TestEntriesForDate(t *testing.T) {
	vancouver := mustLoadLocation(t, "America/Vancouver")

	static := StaticEntries()
	dec19 := time.Date(2025, time.December, 19, 9, 0, 0, 0, vancouver)

	t.Run("static only", func(t *testing.T) {
		for _, day := range []time.Time{
			dec19,
			time.Date(2026, time.February, 16, 0, 0, 0, 0, vancouver),
			time.Date(2025, time.July, 1, 0, 0, 0, 0, vancouver),
		} {
			want := make([]string, 0)
			key := day.Format("2006-01-02")
			for _, e := range static {
				if e.Date == key {
					want = append(want, e.ID)
				}
			}
			assert.Equal(t, want, ids(EntriesForDate(MergeSources(static, nil), day)), key)
		}
	})

	t.Run("union with fetched", func(t *testing.T) {
		fetched := []Entry{{ID: "evt-1", Date: "2025-12-19", Kind: KindUserEvent}, {ID: "evt-2", Date: "2025-12-20"}}
		got := ids(EntriesForDate(MergeSources(static, fetched), dec19))
		assert.Equal(t, []string{"static-2025-12-19", "evt-1"}, got)
	})

	t.Run("local day, not UTC day", func(t *testing.T) {
		// 23:30 in Vancouver is already the next day in UTC
		lateEvening := time.Date(2025, time.December, 19, 23, 30, 0, 0, vancouver)
		require.Equal(t, 20, lateEvening.UTC().Day())

		got := ids(EntriesForDate(static, lateEvening))
		assert.Equal(t, []string{"static-2025-12-19"}, got)
	})

	t.Run("free-form stored dates", func(t *testing.T) {
		entries := []Entry{{ID: "a", Date: " 2025-12-19 "}, {ID: "b", Date: "2025-12-19T18:00"}, {ID: "c", Date: "TBD"}}
		assert.Equal(t, []string{"a", "b"}, ids(EntriesForDate(entries, dec19)))
	})
}

func TestFindNextEventOnOrAfter(t *testing.T) {
	jan5 := Entry{ID: "jan5", Date: "2026-01-05"}
	feb16 := Entry{ID: "feb16", Date: "2026-02-16"}
	feb16bis := Entry{ID: "feb16bis", Date: "2026-02-16"}
	tbd := Entry{ID: "tbd", Date: "TBD"}

	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.Local) }

	tests := []struct {
		name   string
		all    []Entry
		from   time.Time
		wantID string
		wantOK bool
	}{
		{name: "empty", from: day(2026, 1, 1)},
		{name: "after every entry", all: []Entry{jan5, feb16}, from: day(2026, 3, 1)},
		{name: "skips past entries", all: []Entry{jan5, feb16}, from: day(2026, 1, 6), wantID: "feb16", wantOK: true},
		{name: "same day counts", all: []Entry{feb16, jan5}, from: day(2026, 1, 5), wantID: "jan5", wantOK: true},
		{name: "unsorted input", all: []Entry{feb16, jan5}, from: day(2025, 12, 1), wantID: "jan5", wantOK: true},
		{name: "ties keep input order", all: []Entry{feb16bis, feb16}, from: day(2026, 2, 1), wantID: "feb16bis", wantOK: true},
		{name: "invalid keys ignored", all: []Entry{tbd}, from: day(2026, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindNextEventOnOrAfter(tt.all, tt.from)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestGenerateMonthGrid(t *testing.T) {
	vancouver := mustLoadLocation(t, "America/Vancouver")

	for _, year := range []int{2023, 2024, 2025, 2026, 2100, 2000} {
		for month := time.January; month <= time.December; month++ {
			grid := GenerateMonthGrid(month, year, vancouver)
			first := time.Date(year, month, 1, 0, 0, 0, 0, vancouver)

			require.Len(t, grid, 42)
			assert.Equal(t, time.Sunday, grid[0].Weekday(), "%d-%02d starts on a Sunday", year, month)
			assert.Equal(t, time.Saturday, grid[41].Weekday(), "%d-%02d ends on a Saturday", year, month)
			assert.False(t, grid[0].After(first), "%d-%02d starts on or before the 1st", year, month)
			assert.True(t, first.Sub(grid[0]) < 7*24*time.Hour+time.Hour)

			for i := 1; i < len(grid); i++ {
				prev, curr := grid[i-1], grid[i]
				assert.True(t, prev.AddDate(0, 0, 1).Equal(curr), "consecutive days")
				assert.Equal(t, 0, curr.Hour(), "midnight, even across DST changes")
			}
		}
	}

	t.Run("february", func(t *testing.T) {
		leap := GenerateMonthGrid(time.February, 2024, time.UTC)
		assert.Equal(t, time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC), leap[0])
		assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), leap[32])

		// starts on a Sunday: no leading days
		nonLeap := GenerateMonthGrid(time.February, 2026, time.UTC)
		assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), nonLeap[0])
		assert.Equal(t, time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC), nonLeap[41])
	})
}

func TestBucketByDay(t *testing.T) {
	all := []Entry{{ID: "a", Date: "2025-12-19"}, {ID: "b", Date: "2025-12-20"}, {ID: "c", Date: "2025-12-19T10:00"}}
	buckets := BucketByDay(all)
	assert.Len(t, buckets, 2)
	assert.Equal(t, []string{"a", "c"}, ids(buckets["2025-12-19"]))
	assert.Equal(t, []string{"b"}, ids(buckets["2025-12-20"]))
}

func TestKind(t *testing.T) {
	for _, k := range Kinds() {
		style := k.Style()
		assert.NotEmpty(t, style.Tag, k)
		assert.NotEmpty(t, style.MessageID, k)
		assert.NotEmpty(t, style.Label, k)
		assert.NotEmpty(t, style.Color, k)

		parsed, err := ParseKind(style.Tag)
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Len(t, Kinds(), 4)

	_, err := ParseKind("birthday")
	assert.Error(t, err)
	assert.False(t, Kind(42).Valid())
	assert.Equal(t, "Kind(42)", Kind(42).String())

	data, err := json.Marshal(Entry{ID: "x", Kind: KindProD})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"pro-d"`)

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"y","type":"collab"}`), &e))
	assert.Equal(t, KindCollab, e.Kind)
	assert.Error(t, json.Unmarshal([]byte(`{"type":"party"}`), &e))
}

func TestStaticEntries(t *testing.T) {
	entries := StaticEntries()
	require.NotEmpty(t, entries)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
		assert.True(t, isDateKey(e.Key()), e.ID)
		assert.NotEqual(t, KindUserEvent, e.Kind, e.ID)
		assert.NotEmpty(t, e.Icon, e.ID)
	}

	// callers get a copy
	entries[0].Title = "changed"
	assert.NotEqual(t, "changed", StaticEntries()[0].Title)
}
