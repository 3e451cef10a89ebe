package sqlxrepos

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/event"
)

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name     string
		ordering []core.DBOrdering
		columns  map[string]string
		want     string
	}{
		{name: "none", columns: eventOrderColumns, want: " ORDER BY id ASC"},
		{
			name:     "mapped",
			ordering: []core.DBOrdering{{Field: "date", Ascending: true}, {Field: "title"}},
			columns:  eventOrderColumns,
			want:     " ORDER BY LEFT(TRIM(date), 10) ASC, LOWER(title) DESC, id ASC",
		},
		{
			name:     "unknown fields dropped",
			ordering: []core.DBOrdering{{Field: "approvedAt"}, {Field: "1; DROP TABLE users"}},
			columns:  submissionOrderColumns,
			want:     " ORDER BY id ASC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.ordering, tt.columns))
		})
	}
}

func TestFilterClause(t *testing.T) {
	w := filterClause(event.QueryFilter{})
	assert.Equal(t, "", w.String())
	assert.Empty(t, w.args)

	w = filterClause(event.QueryFilter{Search: "50%_off", Category: "Fundraiser", To: "2025-12-31"})
	assert.Equal(t,
		" WHERE (title ILIKE ? OR description ILIKE ? OR location ILIKE ? OR organizer ILIKE ?)"+
			" AND LOWER(category) = ? AND LEFT(TRIM(date), 10) <= ?",
		w.String())
	pattern := `%50\%\_off%`
	assert.Equal(t, []interface{}{pattern, pattern, pattern, pattern, "fundraiser", "2025-12-31"}, w.args)
}

func TestToEventRow(t *testing.T) {
	row := toEventRow(event.Event{Title: "Open House", TargetAudience: "All students"})
	assert.True(t, row.Email.Valid, "email is NOT NULL on approved events")
	assert.True(t, row.Notes.Valid)
	assert.False(t, row.ImageURL.Valid)
	assert.False(t, row.SubmittedAt.Valid)
	assert.Equal(t, "Open House", row.toEvent().Title)
}
