package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/eventhub/core/user"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	IsActive     bool               `bson:"isActive"`
	Roles        []string           `bson:"roles"`
	PasswordHash []byte             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
	LastLogin    *time.Time         `bson:"lastLogin,omitempty"`
}

func toUserDoc(usr user.User) userDoc {
	doc := userDoc{
		Name:         usr.Name,
		Email:        usr.Email,
		IsActive:     usr.IsActive,
		Roles:        usr.Roles,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
	}
	if doc.Roles == nil {
		doc.Roles = []string{}
	}
	if !usr.LastLogin.IsZero() {
		ll := usr.LastLogin.UTC()
		doc.LastLogin = &ll
	}
	if oid, ok := objectID(usr.ID); ok {
		doc.ID = oid
	}
	return doc
}

func (doc userDoc) toUser() user.User {
	usr := user.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		IsActive:     doc.IsActive,
		Roles:        doc.Roles,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
	if doc.LastLogin != nil {
		usr.LastLogin = doc.LastLogin.UTC()
	}
	return usr
}

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) coll() *mongo.Collection {
	return repo.db.collection(usersCollection)
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	doc := toUserDoc(usr)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return doc.toUser(), nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var query bson.M
	switch {
	case filter.ID != "":
		oid, ok := objectID(filter.ID)
		if !ok {
			return user.User{}, user.ErrNotFound
		}
		query = bson.M{"_id": oid}
	case filter.Email != "":
		query = bson.M{"email": filter.Email}
	default:
		return user.User{}, user.ErrNotFound
	}

	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	var doc userDoc
	if err := repo.coll().FindOne(ctx, query).Decode(&doc); err != nil {
		return user.User{}, trapNoDocsErr(err, user.ErrNotFound, "finding user")
	}
	return doc.toUser(), nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := repo.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	var docs []userDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding users")
	}
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser())
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	oid, ok := objectID(usr.ID)
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	doc := toUserDoc(usr)
	res, err := repo.coll().ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return doc.toUser(), nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	ctx, cancel := repo.db.withTimeout(ctx)
	defer cancel()

	doc := toUserDoc(usr)
	update := bson.M{
		"$set": bson.M{
			"name":         doc.Name,
			"isActive":     doc.IsActive,
			"roles":        doc.Roles,
			"passwordHash": doc.PasswordHash,
			"updatedAt":    doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": doc.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved userDoc
	if err := repo.coll().FindOneAndUpdate(ctx, bson.M{"email": doc.Email}, update, opts).Decode(&saved); err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return saved.toUser(), nil
}
