package calendar

import (
	"context"
	"time"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/event"
)

var NowFunc = time.Now // mockable

type (
	// EventSource provides the approved events.
	EventSource interface {
		QueryEvents(ctx context.Context, filter event.QueryFilter, ordering ...core.DBOrdering) ([]event.Event, error)
	}

	// Translator renders the message id for a locale, falling back to the id itself.
	Translator interface {
		T(locale, key string, data map[string]interface{}) string
	}

	Service struct {
		events     EventSource
		translator Translator
		logger     core.Logger
		loc        *time.Location
	}

	Day struct {
		Date    string  `json:"date"`
		Weekday int     `json:"weekday"`
		InMonth bool    `json:"inMonth"`
		IsToday bool    `json:"isToday"`
		Entries []Entry `json:"entries"`
	}

	MonthView struct {
		Year  int    `json:"year"`
		Month int    `json:"month"`
		Today string `json:"today"`
		Days  []Day  `json:"days"`
	}

	KindInfo struct {
		Kind  Kind   `json:"type"`
		Label string `json:"label"`
		Color string `json:"color"`
		Icon  string `json:"icon"`
	}
)

// NewService builds a calendar Service; translator may be nil (English labels).
func NewService(events EventSource, translator Translator, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		events:     events,
		translator: translator,
		logger:     logger,
		loc:        conf.Location(),
	}
}

func (svc *Service) Location() *time.Location { return svc.loc }

// Now is the current time in the school's timezone.
func (svc *Service) Now() time.Time { return NowFunc().In(svc.loc) }

// Entries merges the static calendar with the approved events.
// A failing fetch is logged and the static entries are returned alone.
func (svc *Service) Entries(ctx context.Context) []Entry {
	var fetched []Entry
	evts, err := svc.events.QueryEvents(ctx, event.QueryFilter{})
	if err != nil {
		svc.logger.Warn("calendar: fetching approved events failed, showing static entries only", err)
	} else {
		fetched = FromEvents(evts)
	}
	return MergeSources(StaticEntries(), fetched)
}

func (svc *Service) Month(ctx context.Context, year int, month time.Month, lang string) MonthView {
	buckets := BucketByDay(svc.Entries(ctx))
	today := core.DateKey(svc.Now())

	view := MonthView{Year: year, Month: int(month), Today: today, Days: make([]Day, 0, GridDays)}
	for _, d := range GenerateMonthGrid(month, year, svc.loc) {
		key := core.DateKey(d)
		view.Days = append(view.Days, Day{
			Date:    key,
			Weekday: int(d.Weekday()),
			InMonth: d.Month() == month,
			IsToday: key == today,
			Entries: svc.localize(buckets[key], lang),
		})
	}
	return view
}

func (svc *Service) Day(ctx context.Context, date time.Time, lang string) Day {
	date = date.In(svc.loc)
	key := core.DateKey(date)
	return Day{
		Date:    key,
		Weekday: int(date.Weekday()),
		InMonth: true,
		IsToday: key == core.DateKey(svc.Now()),
		Entries: svc.localize(EntriesForDate(svc.Entries(ctx), date), lang),
	}
}

func (svc *Service) Next(ctx context.Context, from time.Time, lang string) (Entry, bool) {
	e, ok := FindNextEventOnOrAfter(svc.Entries(ctx), from.In(svc.loc))
	if !ok {
		return Entry{}, false
	}
	return svc.localize([]Entry{e}, lang)[0], true
}

func (svc *Service) Kinds(lang string) []KindInfo {
	kinds := make([]KindInfo, 0, kindCount)
	for _, k := range Kinds() {
		style := k.Style()
		kinds = append(kinds, KindInfo{Kind: k, Label: svc.label(k, lang), Color: style.Color, Icon: style.Icon})
	}
	return kinds
}

func (svc *Service) label(k Kind, lang string) string {
	style := k.Style()
	if svc.translator == nil {
		return style.Label
	}
	if l := svc.translator.T(lang, style.MessageID, nil); l != "" && l != style.MessageID {
		return l
	}
	return style.Label
}

func (svc *Service) localize(entries []Entry, lang string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Label = svc.label(e.Kind, lang)
		out = append(out, e)
	}
	return out
}
