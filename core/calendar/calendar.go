// Package calendar merges the fixed school calendar with approved events
// and answers per-day and per-month lookups over the result.
//
// Date keys are always built from a time's own calendar fields (see core.DateKey):
// a time in the school's zone keeps its day even when UTC is already on the next one.
package calendar

import (
	"sort"
	"time"

	"github.com/trezcool/eventhub/core"
)

// GridDays is the size of a month grid: 6 weeks.
const GridDays = 42

// MonthGrid holds the days of a 6-week month view, from a Sunday to a Saturday.
type MonthGrid [GridDays]time.Time

// MergeSources concatenates static and fetched entries: no de-duplication, no sorting.
func MergeSources(static, fetched []Entry) []Entry {
	all := make([]Entry, 0, len(static)+len(fetched))
	all = append(all, static...)
	return append(all, fetched...)
}

// EntriesForDate returns the entries whose date key equals target's date key, in input order.
func EntriesForDate(all []Entry, target time.Time) []Entry {
	key := core.DateKey(target)
	found := make([]Entry, 0)
	for _, e := range all {
		if e.Key() == key {
			found = append(found, e)
		}
	}
	return found
}

// FindNextEventOnOrAfter returns the entry with the smallest date key not before from's date key.
// Entries with equal keys keep their input order. Entries without a valid date key are ignored.
func FindNextEventOnOrAfter(all []Entry, from time.Time) (Entry, bool) {
	key := core.DateKey(from)
	upcoming := make([]Entry, 0, len(all))
	for _, e := range all {
		if k := e.Key(); isDateKey(k) && k >= key {
			upcoming = append(upcoming, e)
		}
	}
	if len(upcoming) == 0 {
		return Entry{}, false
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].Key() < upcoming[j].Key() })
	return upcoming[0], true
}

// GenerateMonthGrid returns the 42 days starting on the Sunday on or before the 1st of month,
// at midnight in loc (time.Local if nil).
func GenerateMonthGrid(month time.Month, year int, loc *time.Location) MonthGrid {
	if loc == nil {
		loc = time.Local
	}
	offset := int(time.Date(year, month, 1, 0, 0, 0, 0, loc).Weekday())

	var grid MonthGrid
	for i := range grid {
		// time.Date normalizes out of range days, across month and year boundaries
		grid[i] = time.Date(year, month, 1-offset+i, 0, 0, 0, 0, loc)
	}
	return grid
}

// BucketByDay groups entries by date key, keeping input order inside a day.
func BucketByDay(all []Entry) map[string][]Entry {
	buckets := make(map[string][]Entry)
	for _, e := range all {
		key := e.Key()
		buckets[key] = append(buckets[key], e)
	}
	return buckets
}

func isDateKey(key string) bool {
	_, err := time.Parse(core.DateKeyLayout, key)
	return err == nil
}
