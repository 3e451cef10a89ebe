package inmemdb

import (
	"context"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/event"
)

// fixed width, so that timestamps order as strings
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

type eventRepository struct {
	db *eventTables
}

var (
	_ event.Repository = (*eventRepository)(nil)
	_ event.TxApprover = (*eventRepository)(nil)
)

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db.event}
}

func submissionField(sub event.Submission, field string) string {
	switch field {
	case "date":
		return core.NormalizeDateKey(sub.Date)
	case "title":
		return sub.Title
	case "category":
		return sub.Category
	case "organizer":
		return sub.Organizer
	case "submittedAt":
		return sub.SubmittedAt.UTC().Format(timestampLayout)
	}
	return ""
}

func eventField(evt event.Event, field string) string {
	switch field {
	case "date":
		return core.NormalizeDateKey(evt.Date)
	case "title":
		return evt.Title
	case "category":
		return evt.Category
	case "organizer":
		return evt.Organizer
	case "submittedAt":
		return evt.SubmittedAt.UTC().Format(timestampLayout)
	case "approvedAt":
		return evt.ApprovedAt.UTC().Format(timestampLayout)
	}
	return ""
}

func (repo *eventRepository) CreateSubmission(_ context.Context, sub event.Submission) (event.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = newID()
	repo.db.submissions[sub.ID] = &sub
	return sub, nil
}

func (repo *eventRepository) QuerySubmissions(_ context.Context, filter event.QueryFilter, ordering ...core.DBOrdering) ([]event.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]event.Submission, 0, len(repo.db.submissions))
	for _, sub := range repo.db.submissions {
		if filter.Match(sub.Title, sub.Description, sub.Category, sub.Date, sub.Location, sub.Organizer) {
			subs = append(subs, *sub)
		}
	}
	orderBy(subs, ordering, submissionField, func(sub event.Submission) string { return sub.ID })
	return subs, nil
}

func (repo *eventRepository) GetSubmission(_ context.Context, id string) (event.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.submissions[id]; ok {
		return *sub, nil
	}
	return event.Submission{}, event.ErrSubmissionNotFound
}

func (repo *eventRepository) UpdateSubmission(_ context.Context, id string, upd event.UpdateSubmission) (event.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub, ok := repo.db.submissions[id]
	if !ok {
		return event.Submission{}, event.ErrSubmissionNotFound
	}
	updated := *sub
	upd.ApplyTo(&updated)
	repo.db.submissions[id] = &updated
	return updated, nil
}

func (repo *eventRepository) DeleteSubmission(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.submissions[id]; !ok {
		return event.ErrSubmissionNotFound
	}
	delete(repo.db.submissions, id)
	return nil
}

func (repo *eventRepository) CreateEvent(_ context.Context, evt event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	evt.ID = newID()
	repo.db.events[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEvents(_ context.Context, filter event.QueryFilter, ordering ...core.DBOrdering) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	evts := make([]event.Event, 0, len(repo.db.events))
	for _, evt := range repo.db.events {
		if filter.Match(evt.Title, evt.Description, evt.Category, evt.Date, evt.Location, evt.Organizer) {
			evts = append(evts, *evt)
		}
	}
	orderBy(evts, ordering, eventField, func(evt event.Event) string { return evt.ID })
	return evts, nil
}

func (repo *eventRepository) GetEvent(_ context.Context, id string) (event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if evt, ok := repo.db.events[id]; ok {
		return *evt, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) DeleteEvent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.events[id]; !ok {
		return event.ErrNotFound
	}
	delete(repo.db.events, id)
	return nil
}

// ApproveSubmission moves the submission under a single lock.
func (repo *eventRepository) ApproveSubmission(_ context.Context, evt event.Event, submissionID string) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.submissions[submissionID]; !ok {
		return event.Event{}, event.ErrSubmissionNotFound
	}
	evt.ID = newID()
	repo.db.events[evt.ID] = &evt
	delete(repo.db.submissions, submissionID)
	return evt, nil
}
