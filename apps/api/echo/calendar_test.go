package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eventhub/core/calendar"
	"github.com/trezcool/eventhub/core/event"
	"github.com/trezcool/eventhub/testutil"
)

func entryIDs(entries []calendar.Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func Test_calendarApi_month(t *testing.T) {
	ta := setup(t)

	tests := []struct {
		name      string
		path      string
		wantYear  int
		wantMonth int
		wantFirst string
	}{
		{name: "current month by default", path: "/v1/calendar", wantYear: 2025, wantMonth: 12, wantFirst: "2025-11-30"},
		{name: "given month", path: "/v1/calendar?year=2026&month=2", wantYear: 2026, wantMonth: 2, wantFirst: "2026-02-01"},
		{name: "month only", path: "/v1/calendar?month=1", wantYear: 2025, wantMonth: 1, wantFirst: "2024-12-29"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.do(http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var view calendar.MonthView
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
			assert.Equal(t, tt.wantYear, view.Year)
			assert.Equal(t, tt.wantMonth, view.Month)
			assert.Equal(t, "2025-12-10", view.Today)
			require.Len(t, view.Days, calendar.GridDays)
			assert.Equal(t, tt.wantFirst, view.Days[0].Date)
		})
	}

	ta.run(t, []httpTest{
		{
			name: "invalid month", path: "/v1/calendar?month=13", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"month": "month must be a number between 1 and 12"}),
		},
		{
			name: "invalid year", path: "/v1/calendar?year=abc", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"year": "year must be a number between 1 and 9999"}),
		},
	})
}

func Test_calendarApi_day(t *testing.T) {
	ta := setup(t)

	concert := testutil.CreateEvent(t, ta.evtRepo, event.Event{Title: "Winter Concert", Date: "2025-12-19", Time: "07:00 PM", Icon: "🎵"})
	testutil.CreateEvent(t, ta.evtRepo, event.Event{Title: "Skating Trip", Date: "2025-12-20"})

	tests := []struct {
		name       string
		path       string
		acceptLang string
		wantLabels []string
	}{
		{name: "english by default", path: "/v1/calendar/days/2025-12-19", wantLabels: []string{"Holiday", "School Event"}},
		{name: "lang param", path: "/v1/calendar/days/2025-12-19?lang=fr", wantLabels: []string{"Congé", "Événement scolaire"}},
		{name: "accept-language header", path: "/v1/calendar/days/2025-12-19", acceptLang: "fr-CA,fr;q=0.9,en;q=0.8", wantLabels: []string{"Congé", "Événement scolaire"}},
		{name: "unknown language", path: "/v1/calendar/days/2025-12-19?lang=de", wantLabels: []string{"Holiday", "School Event"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			if tt.acceptLang != "" {
				req.Header.Set("Accept-Language", tt.acceptLang)
			}
			ta.app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var day calendar.Day
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
			assert.Equal(t, "2025-12-19", day.Date)
			assert.Equal(t, []string{"static-2025-12-19", concert.ID}, entryIDs(day.Entries))
			labels := make([]string, 0, len(day.Entries))
			for _, e := range day.Entries {
				labels = append(labels, e.Label)
			}
			assert.Equal(t, tt.wantLabels, labels)
		})
	}

	ta.run(t, []httpTest{
		{
			name: "invalid date", path: "/v1/calendar/days/19-12-2025", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": "date must be a date (YYYY-MM-DD)"}),
		},
	})
}

func Test_calendarApi_next(t *testing.T) {
	ta := setup(t)

	recital := testutil.CreateEvent(t, ta.evtRepo, event.Event{Title: "Piano Recital", Date: "2025-12-11"})

	tests := []struct {
		name   string
		path   string
		wantID string
	}{
		{name: "from today", path: "/v1/calendar/next", wantID: "static-2025-12-10"},
		{name: "approved event", path: "/v1/calendar/next?from=2025-12-11", wantID: recital.ID},
		{name: "from a date", path: "/v1/calendar/next?from=2026-01-06", wantID: "static-2026-01-14"},
		{name: "same day counts", path: "/v1/calendar/next?from=2026-01-14", wantID: "static-2026-01-14"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ta.do(http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var entry calendar.Entry
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
			assert.Equal(t, tt.wantID, entry.ID)
		})
	}

	ta.run(t, []httpTest{
		{name: "nothing ahead", path: "/v1/calendar/next?from=2099-01-01", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "no upcoming event"})},
		{
			name: "invalid from", path: "/v1/calendar/next?from=soon", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"from": "from must be a date (YYYY-MM-DD)"}),
		},
	})
}

func Test_calendarApi_kinds(t *testing.T) {
	ta := setup(t)

	rec := ta.do(http.MethodGet, "/v1/calendar/kinds?lang=fr", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var kinds []calendar.KindInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &kinds))
	require.Len(t, kinds, len(calendar.Kinds()))
	for i, k := range calendar.Kinds() {
		assert.Equal(t, k, kinds[i].Kind)
		assert.NotEmpty(t, kinds[i].Color)
	}
	assert.Equal(t, "Journée pédagogique", kinds[0].Label)
	assert.Equal(t, "Congé", kinds[1].Label)
}
