// Package mongorepos implements the repositories on MongoDB.
package mongorepos

import (
	"context"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/eventhub/core"
)

// collections
const (
	usersCollection    = "users"
	pendingCollection  = "pendingEvents"
	approvedCollection = "approvedEvents"
	feedbackCollection = "feedback"
	clubsCollection    = "clubs"

	defaultTimeout = 10 * time.Second
)

// caseInsensitive compares strings ignoring case (and diacritics) for sorts, matches and unique indexes.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// DB is a connected client and the app database.
type DB struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	useTx   bool
}

// Connect opens the client, pings the primary and ensures the indexes.
func Connect(ctx context.Context, conf *core.Config) (*DB, error) {
	timeout := conf.Database.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(conf.Database.URI).SetAppName(conf.AppName))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	mdb := &DB{
		client:  client,
		db:      client.Database(conf.Database.Name),
		timeout: timeout,
		useTx:   conf.Database.MongoTransactions,
	}
	if err = mdb.ensureIndexes(cctx); err != nil {
		_ = mdb.Close(context.Background())
		return nil, err
	}
	return mdb, nil
}

func (mdb *DB) Close(ctx context.Context) error {
	return mdb.client.Disconnect(ctx)
}

func (mdb *DB) collection(name string) *mongo.Collection {
	return mdb.db.Collection(name)
}

// withTimeout bounds a single store call.
func (mdb *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, mdb.timeout)
}

func (mdb *DB) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		clubsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true).SetCollation(caseInsensitive)},
		},
		approvedCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		feedbackCollection: {
			{Keys: bson.D{{Key: "submittedAt", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := mdb.collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}

// objectID parses a hex id; ok is false for ids this store could not have issued.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// trapNoDocsErr maps the "no documents" error to notFound.
func trapNoDocsErr(err error, notFound error, msg string) error {
	if errors.Cause(err) == mongo.ErrNoDocuments {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// containsRegex matches s anywhere, ignoring case.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// sortBy builds a sort document from orderings on bson field names; _id breaks the remaining ties.
func sortBy(ordering []core.DBOrdering, allowed map[string]string) bson.D {
	sort := make(bson.D, 0, len(ordering)+1)
	for _, ord := range core.FilterOrderings(ordering, allowed) {
		dir := -1
		if ord.Ascending {
			dir = 1
		}
		sort = append(sort, bson.E{Key: ord.Field, Value: dir})
	}
	return append(sort, bson.E{Key: "_id", Value: 1})
}
