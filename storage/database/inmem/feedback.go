package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/eventhub/core/feedback"
)

type feedbackRepository struct {
	db *feedbackTable
}

var _ feedback.Repository = (*feedbackRepository)(nil)

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db.feedback}
}

func (repo *feedbackRepository) CreateFeedback(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	fb.ID = newID()
	repo.db.table[fb.ID] = &fb
	return fb, nil
}

func (repo *feedbackRepository) QueryFeedback(context.Context) ([]feedback.Feedback, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	fbs := make([]feedback.Feedback, 0, len(repo.db.table))
	for _, fb := range repo.db.table {
		fbs = append(fbs, *fb)
	}
	sort.Slice(fbs, func(i, j int) bool {
		if fbs[i].SubmittedAt.Equal(fbs[j].SubmittedAt) {
			return fbs[i].ID < fbs[j].ID
		}
		return fbs[i].SubmittedAt.After(fbs[j].SubmittedAt)
	})
	return fbs, nil
}

func (repo *feedbackRepository) DeleteFeedback(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return feedback.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
