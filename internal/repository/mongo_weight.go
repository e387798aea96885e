package repository

import (
	"context"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWeightRepository implements domain.WeightRepository
type MongoWeightRepository struct {
	collection *mongo.Collection
}

func NewMongoWeightRepository(db *mongo.Database) *MongoWeightRepository {
	coll := db.Collection("weight_entries")

	ensureIndexes(coll, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}, {Key: "created_at", Value: 1}},
	})

	return &MongoWeightRepository{collection: coll}
}

func (r *MongoWeightRepository) Create(ctx context.Context, entry *domain.WeightEntry) error {
	entry.ID = ""
	entry.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return mapMongoError(err, domain.ErrWeightEntryNotFound, nil)
	}
	entry.ID = insertedHex(result)
	return nil
}

func (r *MongoWeightRepository) List(ctx context.Context, userID string) ([]*domain.WeightEntry, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *MongoWeightRepository) ListByDateRange(ctx context.Context, userID, from, to string) ([]*domain.WeightEntry, error) {
	return r.find(ctx, bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": from, "$lte": to},
	})
}

func (r *MongoWeightRepository) Latest(ctx context.Context, userID string) (*domain.WeightEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})

	var entry domain.WeightEntry
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, mapMongoError(err, domain.ErrWeightEntryNotFound, nil)
	}
	return &entry, nil
}

func (r *MongoWeightRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := objectID(id, domain.ErrWeightEntryNotFound)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return mapMongoError(err, domain.ErrWeightEntryNotFound, nil)
	}
	if result.DeletedCount == 0 {
		return domain.ErrWeightEntryNotFound
	}
	return nil
}

// find returns matches oldest date first
func (r *MongoWeightRepository) find(ctx context.Context, filter bson.M) ([]*domain.WeightEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(err, domain.ErrWeightEntryNotFound, nil)
	}
	defer cursor.Close(ctx)

	entries := []*domain.WeightEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, mapMongoError(err, domain.ErrWeightEntryNotFound, nil)
	}
	return entries, nil
}
