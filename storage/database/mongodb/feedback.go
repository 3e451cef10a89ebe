package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/eventhub/core/feedback"
)

type feedbackDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Feedback    string             `bson:"feedback"`
	Email       string             `bson:"email,omitempty"`
	SubmittedAt time.Time          `bson:"submittedAt"`
}

func (doc feedbackDoc) toFeedback() feedback.Feedback {
	return feedback.Feedback{
		ID:          doc.ID.Hex(),
		Feedback:    doc.Feedback,
		Email:       doc.Email,
		SubmittedAt: doc.SubmittedAt.UTC(),
	}
}

type feedbackRepository struct {
	db *DB
}

var _ feedback.Repository = (*feedbackRepository)(nil)

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	doc := feedbackDoc{
		ID:          primitive.NewObjectID(),
		Feedback:    fb.Feedback,
		Email:       fb.Email,
		SubmittedAt: fb.SubmittedAt.UTC(),
	}
	if _, err := repo.db.collection(feedbackCollection).InsertOne(ctx, doc); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return doc.toFeedback(), nil
}

func (repo *feedbackRepository) QueryFeedback(ctx context.Context) ([]feedback.Feedback, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := repo.db.collection(feedbackCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying feedback")
	}
	var docs []feedbackDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding feedback")
	}
	fbs := make([]feedback.Feedback, 0, len(docs))
	for _, doc := range docs {
		fbs = append(fbs, doc.toFeedback())
	}
	return fbs, nil
}

func (repo *feedbackRepository) DeleteFeedback(ctx context.Context, id string) error {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()
	return deleteOne(ctx, repo.db.collection(feedbackCollection), id, feedback.ErrNotFound)
}
