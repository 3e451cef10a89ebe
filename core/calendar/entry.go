package calendar

import (
	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/event"
)

// Entry is one dated item of the calendar: a static school date or an approved event.
type Entry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Kind        Kind   `json:"type"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Key is the entry's date key. Dates are stored free-form, only their leading YYYY-MM-DD counts.
func (e Entry) Key() string {
	return core.NormalizeDateKey(e.Date)
}

// FromEvent turns an approved event into a user-event entry.
func FromEvent(evt event.Event) Entry {
	icon := evt.Icon
	if icon == "" {
		icon = KindUserEvent.Style().Icon
	}
	return Entry{
		ID:          evt.ID,
		Title:       evt.Title,
		Date:        evt.Date,
		Kind:        KindUserEvent,
		Description: evt.Description,
		Icon:        icon,
		Time:        evt.Time,
		Location:    evt.Location,
	}
}

// FromEvents converts every event with FromEvent.
func FromEvents(evts []event.Event) []Entry {
	entries := make([]Entry, 0, len(evts))
	for _, evt := range evts {
		entries = append(entries, FromEvent(evt))
	}
	return entries
}
