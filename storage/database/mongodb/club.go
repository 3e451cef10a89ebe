package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/eventhub/core/club"
)

type clubDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	MeetingDays string             `bson:"meetingDays,omitempty"`
	MeetingTime string             `bson:"meetingTime,omitempty"`
	Location    string             `bson:"location,omitempty"`
	Sponsor     string             `bson:"sponsor,omitempty"`
	Members     int                `bson:"members,omitempty"`
	LeaderEmail string             `bson:"leaderEmail,omitempty"`
	ImageURL    string             `bson:"imageUrl,omitempty"`
}

func (doc clubDoc) toClub() club.Club {
	return club.Club{
		ID:          doc.ID.Hex(),
		Name:        doc.Name,
		Description: doc.Description,
		Category:    doc.Category,
		MeetingDays: doc.MeetingDays,
		MeetingTime: doc.MeetingTime,
		Location:    doc.Location,
		Sponsor:     doc.Sponsor,
		Members:     doc.Members,
		LeaderEmail: doc.LeaderEmail,
		ImageURL:    doc.ImageURL,
	}
}

type clubRepository struct {
	db *DB
}

var _ club.Repository = (*clubRepository)(nil)

func NewClubRepository(db *DB) club.Repository {
	return &clubRepository{db: db}
}

func (repo *clubRepository) coll() *mongo.Collection {
	return repo.db.collection(clubsCollection)
}

func (repo *clubRepository) QueryClubs(ctx context.Context, filter club.QueryFilter) ([]club.Club, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.Search != "" {
		re := containsRegex(filter.Search)
		query["$or"] = bson.A{bson.M{"name": re}, bson.M{"description": re}, bson.M{"sponsor": re}}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).
		SetCollation(caseInsensitive)
	cur, err := repo.coll().Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying clubs")
	}
	var docs []clubDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding clubs")
	}
	clubs := make([]club.Club, 0, len(docs))
	for _, doc := range docs {
		clubs = append(clubs, doc.toClub())
	}
	return clubs, nil
}

func (repo *clubRepository) GetClub(ctx context.Context, id string) (club.Club, error) {
	oid, ok := objectID(id)
	if !ok {
		return club.Club{}, club.ErrNotFound
	}

	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	var doc clubDoc
	if err := repo.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return club.Club{}, trapNoDocsErr(err, club.ErrNotFound, "finding club")
	}
	return doc.toClub(), nil
}

// UpsertClub replaces the club whose name matches ignoring case.
func (repo *clubRepository) UpsertClub(ctx context.Context, c club.Club) (club.Club, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	doc := clubDoc{
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		MeetingDays: c.MeetingDays,
		MeetingTime: c.MeetingTime,
		Location:    c.Location,
		Sponsor:     c.Sponsor,
		Members:     c.Members,
		LeaderEmail: c.LeaderEmail,
		ImageURL:    c.ImageURL,
	}
	opts := options.FindOneAndReplace().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetCollation(caseInsensitive)

	var saved clubDoc
	if err := repo.coll().FindOneAndReplace(ctx, bson.M{"name": c.Name}, doc, opts).Decode(&saved); err != nil {
		return club.Club{}, errors.Wrap(err, "upserting club")
	}
	return saved.toClub(), nil
}
