package accounts

import (
	"context"
	"errors"
	"time"

	"recipebox/apperr"
	"recipebox/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one document per account in the users collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the unique email index that backs Create's conflict
// check against concurrent registrations.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return apperr.Storage("create email index", err)
	}
	return nil
}

// byID matches an account by id. Older documents in the users collection
// carry ObjectID keys, which decode into Account.ID as hex, so a hex id also
// matches its ObjectID form.
func byID(id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{"_id": id}
	}
	return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var a models.Account
	err := s.coll.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Storage("find account", err)
	}
	return a.Normalize(), nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return s.findOne(ctx, byID(id))
}

func (s *MongoStore) Create(ctx context.Context, email, password string) (*models.Account, error) {
	email = NormalizeEmail(email)

	// Check first so the common case answers without relying on the index error.
	if _, err := s.FindByEmail(ctx, email); err == nil {
		return nil, apperr.ErrConflict
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	a := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Password:     password,
		SavedRecipes: []models.SavedRecipe{},
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ErrConflict
		}
		return nil, apperr.Storage("insert account", err)
	}
	return a, nil
}

func (s *MongoStore) updateOne(ctx context.Context, filter, update bson.M) (*models.Account, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a models.Account
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Storage("update account", err)
	}
	return a.Normalize(), nil
}

func (s *MongoStore) UpdateByID(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	set := bson.M{}
	if upd.DisplayName != nil {
		set["fullName"] = *upd.DisplayName
	}
	if upd.AvatarPath != nil {
		set["avatar"] = *upd.AvatarPath
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}
	return s.updateOne(ctx, byID(id), bson.M{"$set": set})
}

// AppendSavedRecipe pushes ref only when no entry with the same id exists. The
// membership test and the push are one atomic document update; when nothing
// matches, a plain read tells a missing account apart from a duplicate.
func (s *MongoStore) AppendSavedRecipe(ctx context.Context, id string, ref models.SavedRecipe) (*models.Account, error) {
	filter := byID(id)
	filter["savedRecipes.id"] = bson.M{"$ne": ref.ID}
	a, err := s.updateOne(ctx, filter, bson.M{"$push": bson.M{"savedRecipes": ref}})
	if errors.Is(err, apperr.ErrNotFound) {
		return s.FindByID(ctx, id)
	}
	return a, err
}

func (s *MongoStore) RemoveSavedRecipe(ctx context.Context, id, recipeID string) (*models.Account, error) {
	return s.updateOne(ctx, byID(id), bson.M{"$pull": bson.M{"savedRecipes": bson.M{"id": recipeID}}})
}

func (s *MongoStore) SetPassword(ctx context.Context, id, password string) error {
	res, err := s.coll.UpdateOne(ctx, byID(id), bson.M{"$set": bson.M{"password": password}})
	if err != nil {
		return apperr.Storage("set password", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
