package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/trezcool/eventhub/core/club"
	"github.com/trezcool/eventhub/core/event"
	"github.com/trezcool/eventhub/testutil"
)

func Test_eventApi(t *testing.T) {
	ta := setup(t)

	concert := testutil.CreateEvent(t, ta.evtRepo, event.Event{
		Title: "Winter Concert", Description: "Holiday favourites", Category: "Music", Date: "2025-12-18",
		Time: "07:00 PM", Location: "Gym", Organizer: "Music Department", Icon: "🎵", ApprovedAt: now,
	})
	artShow := testutil.CreateEvent(t, ta.evtRepo, event.Event{
		Title: "art show", Description: "Student work", Category: "Arts", Date: "2025-12-12",
		Time: "03:00 PM", Location: "Library", Organizer: "Art Club", Icon: "🎨", ApprovedAt: now,
	})
	bakeSale := testutil.CreateEvent(t, ta.evtRepo, event.Event{
		Title: "Bake Sale", Description: "Cookies for the trip", Category: "Fundraiser", Date: "2025-12-12T11:30",
		Time: "11:30 AM", Location: "Cafeteria", Organizer: "Grade 7", Icon: "💰", ApprovedAt: now,
	})
	notFound := marchallObj(t, httpErr{Error: "event not found"})

	ta.run(t, []httpTest{
		{name: "public, chronological", path: "/v1/events", wantData: marchallList(t, artShow, bakeSale, concert)},
		{name: "ordering", path: "/v1/events?ordering=-date,title", wantData: marchallList(t, concert, artShow, bakeSale)},
		{name: "search", path: "/v1/events?search=library", wantData: marchallList(t, artShow)},
		{name: "category", path: "/v1/events?category=FUNDRAISER", wantData: marchallList(t, bakeSale)},
		{name: "date range", path: "/v1/events?from=2025-12-12&to=2025-12-12", wantData: marchallList(t, artShow, bakeSale)},
		{name: "no match", path: "/v1/events?search=chess", wantData: marchallList(t)},
		{name: "detail", path: "/v1/events/" + concert.ID, wantData: marchallObj(t, concert)},
		{name: "detail (unknown)", path: "/v1/events/unknown", wantCode: http.StatusNotFound, wantData: notFound},
		// admin
		{name: "delete requires auth", method: http.MethodDelete, path: "/v1/events/" + concert.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "delete", method: http.MethodDelete, path: "/v1/events/" + concert.ID, token: ta.adminToken, wantCode: http.StatusNoContent},
		{name: "delete (already deleted)", method: http.MethodDelete, path: "/v1/events/" + concert.ID, token: ta.adminToken, wantCode: http.StatusNotFound, wantData: notFound},
		{name: "after delete", path: "/v1/events", wantData: marchallList(t, artShow, bakeSale)},
	})
}

func Test_clubApi(t *testing.T) {
	ta := setup(t)

	chess := testutil.CreateClub(t, ta.clubRepo, club.Club{
		Name: "Chess Club", Description: "Weekly games and tournaments", Category: "Games",
		MeetingDays: "Tuesday", Sponsor: "Mr. Lee", Members: 18,
	})
	robotics := testutil.CreateClub(t, ta.clubRepo, club.Club{
		Name: "Robotics", Description: "Build and program robots", Category: "STEM", Sponsor: "Ms. Park",
	})
	choir := testutil.CreateClub(t, ta.clubRepo, club.Club{
		Name: "choir", Description: "Sing with friends", Category: "Music", Sponsor: "Mr. Lee",
	})

	ta.run(t, []httpTest{
		{name: "all, by name", path: "/v1/clubs", wantData: marchallList(t, chess, choir, robotics)},
		{name: "search", path: "/v1/clubs?search=lee", wantData: marchallList(t, chess, choir)},
		{name: "category", path: "/v1/clubs?category=stem", wantData: marchallList(t, robotics)},
		{name: "no match", path: "/v1/clubs?search=drama", wantData: marchallList(t)},
		{name: "categories", path: "/v1/clubs/categories", wantData: marchallObj(t, []string{"Games", "Music", "STEM"})},
		{name: "detail", path: "/v1/clubs/" + robotics.ID, wantData: marchallObj(t, robotics)},
		{name: "detail (unknown)", path: "/v1/clubs/unknown", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "club not found"})},
		{name: "read-only", method: http.MethodPost, path: "/v1/clubs", body: []byte(`{"name": "Drama"}`), wantCode: http.StatusMethodNotAllowed},
	})
}
