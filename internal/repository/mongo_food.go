package repository

import (
	"context"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFoodRepository implements domain.FoodRepository
type MongoFoodRepository struct {
	collection *mongo.Collection
}

func NewMongoFoodRepository(db *mongo.Database) *MongoFoodRepository {
	coll := db.Collection("food_entries")

	ensureIndexes(coll, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
	})

	return &MongoFoodRepository{collection: coll}
}

func (r *MongoFoodRepository) Create(ctx context.Context, entry *domain.FoodEntry) error {
	entry.ID = ""
	entry.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return mapMongoError(err, domain.ErrFoodEntryNotFound, nil)
	}
	entry.ID = insertedHex(result)
	return nil
}

func (r *MongoFoodRepository) ListByDate(ctx context.Context, userID, date string) ([]*domain.FoodEntry, error) {
	return r.find(ctx, bson.M{"user_id": userID, "date": date})
}

func (r *MongoFoodRepository) ListByDateRange(ctx context.Context, userID, from, to string) ([]*domain.FoodEntry, error) {
	return r.find(ctx, bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": from, "$lte": to},
	})
}

func (r *MongoFoodRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := objectID(id, domain.ErrFoodEntryNotFound)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return mapMongoError(err, domain.ErrFoodEntryNotFound, nil)
	}
	if result.DeletedCount == 0 {
		return domain.ErrFoodEntryNotFound
	}
	return nil
}

func (r *MongoFoodRepository) find(ctx context.Context, filter bson.M) ([]*domain.FoodEntry, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "time", Value: 1},
		{Key: "created_at", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(err, domain.ErrFoodEntryNotFound, nil)
	}
	defer cursor.Close(ctx)

	entries := []*domain.FoodEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, mapMongoError(err, domain.ErrFoodEntryNotFound, nil)
	}
	return entries, nil
}

// MongoSavedFoodRepository implements domain.SavedFoodRepository
type MongoSavedFoodRepository struct {
	collection *mongo.Collection
}

func NewMongoSavedFoodRepository(db *mongo.Database) *MongoSavedFoodRepository {
	coll := db.Collection("saved_foods")

	ensureIndexes(coll, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}},
	})

	return &MongoSavedFoodRepository{collection: coll}
}

func (r *MongoSavedFoodRepository) Create(ctx context.Context, food *domain.SavedFood) error {
	food.ID = ""
	food.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, food)
	if err != nil {
		return mapMongoError(err, domain.ErrSavedFoodNotFound, nil)
	}
	food.ID = insertedHex(result)
	return nil
}

func (r *MongoSavedFoodRepository) GetByID(ctx context.Context, userID, id string) (*domain.SavedFood, error) {
	oid, err := objectID(id, domain.ErrSavedFoodNotFound)
	if err != nil {
		return nil, err
	}

	var food domain.SavedFood
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&food); err != nil {
		return nil, mapMongoError(err, domain.ErrSavedFoodNotFound, nil)
	}
	return &food, nil
}

// List returns the user's templates sorted by name
func (r *MongoSavedFoodRepository) List(ctx context.Context, userID string) ([]*domain.SavedFood, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, mapMongoError(err, domain.ErrSavedFoodNotFound, nil)
	}
	defer cursor.Close(ctx)

	foods := []*domain.SavedFood{}
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, mapMongoError(err, domain.ErrSavedFoodNotFound, nil)
	}
	return foods, nil
}

func (r *MongoSavedFoodRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := objectID(id, domain.ErrSavedFoodNotFound)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return mapMongoError(err, domain.ErrSavedFoodNotFound, nil)
	}
	if result.DeletedCount == 0 {
		return domain.ErrSavedFoodNotFound
	}
	return nil
}
