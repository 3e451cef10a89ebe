package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/eventhub/core"
	"github.com/trezcool/eventhub/core/event"
)

type submissionDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Category       string             `bson:"category"`
	Date           string             `bson:"date"`
	Time           string             `bson:"time"`
	Location       string             `bson:"location"`
	Organizer      string             `bson:"organizer"`
	TargetAudience string             `bson:"targetAudience,omitempty"`
	Email          string             `bson:"email,omitempty"`
	Notes          string             `bson:"notes,omitempty"`
	Icon           string             `bson:"icon"`
	ImageURL       string             `bson:"imageUrl,omitempty"`
	SubmittedAt    time.Time          `bson:"submittedAt"`
}

type eventDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Description    string             `bson:"description"`
	Category       string             `bson:"category"`
	Date           string             `bson:"date"`
	Time           string             `bson:"time"`
	Location       string             `bson:"location"`
	Organizer      string             `bson:"organizer"`
	TargetAudience string             `bson:"targetAudience"`
	Email          string             `bson:"email"`
	Notes          string             `bson:"notes"`
	Icon           string             `bson:"icon"`
	ImageURL       string             `bson:"imageUrl,omitempty"`
	SubmittedAt    *time.Time         `bson:"submittedAt,omitempty"`
	ApprovedAt     time.Time          `bson:"approvedAt"`
}

func toSubmissionDoc(sub event.Submission) submissionDoc {
	return submissionDoc{
		Title:          sub.Title,
		Description:    sub.Description,
		Category:       sub.Category,
		Date:           sub.Date,
		Time:           sub.Time,
		Location:       sub.Location,
		Organizer:      sub.Organizer,
		TargetAudience: sub.TargetAudience,
		Email:          sub.Email,
		Notes:          sub.Notes,
		Icon:           sub.Icon,
		ImageURL:       sub.ImageURL,
		SubmittedAt:    sub.SubmittedAt.UTC(),
	}
}

func (doc submissionDoc) toSubmission() event.Submission {
	return event.Submission{
		ID:             doc.ID.Hex(),
		Title:          doc.Title,
		Description:    doc.Description,
		Category:       doc.Category,
		Date:           doc.Date,
		Time:           doc.Time,
		Location:       doc.Location,
		Organizer:      doc.Organizer,
		TargetAudience: doc.TargetAudience,
		Email:          doc.Email,
		Notes:          doc.Notes,
		Icon:           doc.Icon,
		ImageURL:       doc.ImageURL,
		SubmittedAt:    doc.SubmittedAt.UTC(),
	}
}

func toEventDoc(evt event.Event) eventDoc {
	doc := eventDoc{
		Title:          evt.Title,
		Description:    evt.Description,
		Category:       evt.Category,
		Date:           evt.Date,
		Time:           evt.Time,
		Location:       evt.Location,
		Organizer:      evt.Organizer,
		TargetAudience: evt.TargetAudience,
		Email:          evt.Email,
		Notes:          evt.Notes,
		Icon:           evt.Icon,
		ImageURL:       evt.ImageURL,
		ApprovedAt:     evt.ApprovedAt.UTC(),
	}
	if !evt.SubmittedAt.IsZero() {
		sa := evt.SubmittedAt.UTC()
		doc.SubmittedAt = &sa
	}
	return doc
}

func (doc eventDoc) toEvent() event.Event {
	evt := event.Event{
		ID:             doc.ID.Hex(),
		Title:          doc.Title,
		Description:    doc.Description,
		Category:       doc.Category,
		Date:           doc.Date,
		Time:           doc.Time,
		Location:       doc.Location,
		Organizer:      doc.Organizer,
		TargetAudience: doc.TargetAudience,
		Email:          doc.Email,
		Notes:          doc.Notes,
		Icon:           doc.Icon,
		ImageURL:       doc.ImageURL,
		ApprovedAt:     doc.ApprovedAt.UTC(),
	}
	if doc.SubmittedAt != nil {
		evt.SubmittedAt = doc.SubmittedAt.UTC()
	}
	return evt
}

// filterDoc is the query rendition of event.QueryFilter.Match.
// Stored dates are compared as strings: a key is a prefix of any free-form value of that day.
func filterDoc(filter event.QueryFilter) bson.M {
	query := bson.M{}
	if filter.Search != "" {
		re := containsRegex(filter.Search)
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"location": re},
			bson.M{"organizer": re},
		}
	}
	if filter.Category != "" {
		query["category"] = primitive.Regex{Pattern: "^" + containsRegex(filter.Category).Pattern + "$", Options: "i"}
	}
	dateRange := bson.M{}
	if filter.From != "" {
		dateRange["$gte"] = filter.From
	}
	if filter.To != "" {
		dateRange["$lte"] = filter.To + "\uffff"
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	return query
}

var submissionSortFields = map[string]string{
	"date":        "date",
	"title":       "title",
	"category":    "category",
	"organizer":   "organizer",
	"submittedAt": "submittedAt",
}

var eventSortFields = map[string]string{
	"date":        "date",
	"title":       "title",
	"category":    "category",
	"organizer":   "organizer",
	"submittedAt": "submittedAt",
	"approvedAt":  "approvedAt",
}

type eventRepository struct {
	db *DB
}

// txEventRepository also approves in a multi-document transaction (replica sets only).
type txEventRepository struct {
	*eventRepository
}

var (
	_ event.Repository = (*eventRepository)(nil)
	_ event.TxApprover = (*txEventRepository)(nil)
)

// NewEventRepository returns a transactional approver when database.mongoTransactions is set.
func NewEventRepository(db *DB) event.Repository {
	repo := &eventRepository{db: db}
	if db.useTx {
		return &txEventRepository{eventRepository: repo}
	}
	return repo
}

func (repo *eventRepository) pending() *mongo.Collection {
	return repo.db.collection(pendingCollection)
}

func (repo *eventRepository) approved() *mongo.Collection {
	return repo.db.collection(approvedCollection)
}

func (repo *eventRepository) CreateSubmission(ctx context.Context, sub event.Submission) (event.Submission, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	doc := toSubmissionDoc(sub)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.pending().InsertOne(ctx, doc); err != nil {
		return event.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return doc.toSubmission(), nil
}

func (repo *eventRepository) QuerySubmissions(ctx context.Context, filter event.QueryFilter, ordering ...core.DBOrdering) ([]event.Submission, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(sortBy(ordering, submissionSortFields)).SetCollation(caseInsensitive)
	cur, err := repo.pending().Find(ctx, filterDoc(filter), opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	var docs []submissionDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding submissions")
	}
	subs := make([]event.Submission, 0, len(docs))
	for _, doc := range docs {
		subs = append(subs, doc.toSubmission())
	}
	return subs, nil
}

func (repo *eventRepository) GetSubmission(ctx context.Context, id string) (event.Submission, error) {
	oid, ok := objectID(id)
	if !ok {
		return event.Submission{}, event.ErrSubmissionNotFound
	}

	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	var doc submissionDoc
	if err := repo.pending().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return event.Submission{}, trapNoDocsErr(err, event.ErrSubmissionNotFound, "finding submission")
	}
	return doc.toSubmission(), nil
}

// UpdateSubmission $sets the provided fields; an emptied optional field is $unset.
func (repo *eventRepository) UpdateSubmission(ctx context.Context, id string, upd event.UpdateSubmission) (event.Submission, error) {
	oid, ok := objectID(id)
	if !ok {
		return event.Submission{}, event.ErrSubmissionNotFound
	}

	set, unset := bson.M{}, bson.M{}
	for field, val := range upd.Fields() {
		if val == "" && optionalFields[field] {
			unset[field] = ""
			continue
		}
		set[field] = val
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(update) == 0 {
		return repo.GetSubmission(ctx, id)
	}

	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc submissionDoc
	if err := repo.pending().FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return event.Submission{}, trapNoDocsErr(err, event.ErrSubmissionNotFound, "updating submission")
	}
	return doc.toSubmission(), nil
}

// optionalFields are omitted from a submission document when empty.
var optionalFields = map[string]bool{"targetAudience": true, "email": true, "notes": true, "imageUrl": true}

func deleteOne(ctx context.Context, coll *mongo.Collection, id string, notFound error) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrapf(err, "deleting from %s", coll.Name())
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

func (repo *eventRepository) DeleteSubmission(ctx context.Context, id string) error {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()
	return deleteOne(ctx, repo.pending(), id, event.ErrSubmissionNotFound)
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	doc := toEventDoc(evt)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.approved().InsertOne(ctx, doc); err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return doc.toEvent(), nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context, filter event.QueryFilter, ordering ...core.DBOrdering) ([]event.Event, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(sortBy(ordering, eventSortFields)).SetCollation(caseInsensitive)
	cur, err := repo.approved().Find(ctx, filterDoc(filter), opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	var docs []eventDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding events")
	}
	evts := make([]event.Event, 0, len(docs))
	for _, doc := range docs {
		evts = append(evts, doc.toEvent())
	}
	return evts, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	oid, ok := objectID(id)
	if !ok {
		return event.Event{}, event.ErrNotFound
	}

	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	var doc eventDoc
	if err := repo.approved().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return event.Event{}, trapNoDocsErr(err, event.ErrNotFound, "finding event")
	}
	return doc.toEvent(), nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()
	return deleteOne(ctx, repo.approved(), id, event.ErrNotFound)
}

// ApproveSubmission deletes the submission and inserts the event in one transaction.
func (repo *txEventRepository) ApproveSubmission(ctx context.Context, evt event.Event, submissionID string) (event.Event, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	sess, err := repo.db.client.StartSession()
	if err != nil {
		return event.Event{}, errors.Wrap(err, "starting session")
	}
	defer sess.EndSession(ctx)

	doc := toEventDoc(evt)
	doc.ID = primitive.NewObjectID()
	_, err = sess.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := deleteOne(sessCtx, repo.pending(), submissionID, event.ErrSubmissionNotFound); err != nil {
			return nil, err
		}
		_, err := repo.approved().InsertOne(sessCtx, doc)
		return nil, errors.Wrap(err, "inserting event")
	})
	if err != nil {
		return event.Event{}, err
	}
	return doc.toEvent(), nil
}
