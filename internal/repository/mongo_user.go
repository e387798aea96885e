package repository

import (
	"context"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements domain.UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	coll := db.Collection("users")

	ensureIndexes(coll, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoUserRepository{
		collection: coll,
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	objID := primitive.NewObjectID()

	doc := bson.M{
		"_id":                objID,
		"username":           user.Username,
		"password_hash":      user.PasswordHash,
		"daily_calorie_goal": user.DailyCalorieGoal,
		"daily_protein_goal": user.DailyProteinGoal,
		"public_dashboard":   user.PublicDashboard,
		"created_at":         user.CreatedAt,
		"updated_at":         user.UpdatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return mapMongoError(err, domain.ErrUserNotFound, domain.ErrUsernameTaken)
	}
	user.ID = objID.Hex()
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	objID, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// UpdateProfile overwrites the goal and sharing settings. A nil goal clears it.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	objID, err := objectID(id, domain.ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	change := bson.M{
		"$set": bson.M{
			"daily_calorie_goal": update.DailyCalorieGoal,
			"daily_protein_goal": update.DailyProteinGoal,
			"public_dashboard":   update.PublicDashboard,
			"updated_at":         time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, change, opts).Decode(&user); err != nil {
		return nil, mapMongoError(err, domain.ErrUserNotFound, nil)
	}
	return &user, nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapMongoError(err, domain.ErrUserNotFound, nil)
	}
	return &user, nil
}
