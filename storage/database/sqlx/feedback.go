package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eventhub/core/feedback"
)

type feedbackRow struct {
	ID          string      `db:"id"`
	Feedback    string      `db:"feedback"`
	Email       null.String `db:"email"`
	SubmittedAt null.Time   `db:"submitted_at"`
}

type feedbackRepository struct {
	db *sqlx.DB
}

var _ feedback.Repository = (*feedbackRepository)(nil)

func NewFeedbackRepository(db *sqlx.DB) feedback.Repository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	fb.ID = uuid.NewString()
	row := feedbackRow{
		ID:          fb.ID,
		Feedback:    fb.Feedback,
		Email:       optString(fb.Email),
		SubmittedAt: null.TimeFrom(fb.SubmittedAt.UTC()),
	}
	q := `INSERT INTO feedback (id, feedback, email, submitted_at) VALUES (:id, :feedback, :email, :submitted_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return fb, nil
}

func (repo *feedbackRepository) QueryFeedback(ctx context.Context) ([]feedback.Feedback, error) {
	var rows []feedbackRow
	q := `SELECT id, feedback, email, submitted_at FROM feedback ORDER BY submitted_at DESC, id ASC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying feedback")
	}
	fbs := make([]feedback.Feedback, 0, len(rows))
	for _, row := range rows {
		fbs = append(fbs, feedback.Feedback{
			ID:          row.ID,
			Feedback:    row.Feedback,
			Email:       row.Email.String,
			SubmittedAt: row.SubmittedAt.Time.UTC(),
		})
	}
	return fbs, nil
}

func (repo *feedbackRepository) DeleteFeedback(ctx context.Context, id string) error {
	return deleteByID(ctx, repo.db, "feedback", id, feedback.ErrNotFound)
}
