package repository

import (
	"context"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoGymSessionRepository implements domain.GymSessionRepository.
// Exercises and sets are embedded, so deleting a session removes them with it.
type MongoGymSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoGymSessionRepository(db *mongo.Database) *MongoGymSessionRepository {
	coll := db.Collection("gym_sessions")

	ensureIndexes(coll,
		// At most one active session per user. A second insert fails with E11000.
		mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("one_active_session_per_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "started_at", Value: -1}},
		},
	)

	return &MongoGymSessionRepository{
		collection: coll,
	}
}

func (r *MongoGymSessionRepository) Create(ctx context.Context, session *domain.GymSession) error {
	session.ID = ""
	if session.Exercises == nil {
		session.Exercises = []*domain.Exercise{}
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return mapMongoError(err, domain.ErrSessionNotFound, domain.ErrSessionAlreadyOpen)
	}
	session.ID = insertedHex(result)
	return nil
}

func (r *MongoGymSessionRepository) GetByID(ctx context.Context, userID, id string) (*domain.GymSession, error) {
	oid, err := objectID(id, domain.ErrSessionNotFound)
	if err != nil {
		return nil, err
	}

	var session domain.GymSession
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&session); err != nil {
		return nil, mapMongoError(err, domain.ErrSessionNotFound, nil)
	}
	return &session, nil
}

func (r *MongoGymSessionRepository) GetActive(ctx context.Context, userID string) (*domain.GymSession, error) {
	return r.findOneOrNil(ctx, bson.M{"user_id": userID, "is_active": true}, nil)
}

func (r *MongoGymSessionRepository) GetLatestCompleted(ctx context.Context, userID string) (*domain.GymSession, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "started_at", Value: -1}, {Key: "_id", Value: -1}})
	return r.findOneOrNil(ctx, bson.M{"user_id": userID, "is_active": false}, opts)
}

// List returns one page of sessions, newest first, with the total count
func (r *MongoGymSessionRepository) List(ctx context.Context, userID string, page, limit int) (*domain.SessionPage, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, mapMongoError(err, domain.ErrSessionNotFound, nil)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	sessions, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	return &domain.SessionPage{
		Data:  sessions,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

func (r *MongoGymSessionRepository) ListByStartedRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.GymSession, error) {
	filter := bson.M{
		"user_id":    userID,
		"started_at": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: 1}})
	return r.find(ctx, filter, opts)
}

// AppendExercise pushes onto the exercises array only while the session is active.
// The filter and the push are one atomic update.
func (r *MongoGymSessionRepository) AppendExercise(ctx context.Context, userID, sessionID string, ex *domain.Exercise) error {
	oid, err := objectID(sessionID, domain.ErrSessionNotFound)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "user_id": userID, "is_active": true}
	update := bson.M{"$push": bson.M{"exercises": ex}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapMongoError(err, domain.ErrSessionNotFound, nil)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: tell a completed session apart from a missing one
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return mapMongoError(err, domain.ErrSessionNotFound, nil)
	}
	if count == 0 {
		return domain.ErrSessionNotFound
	}
	return domain.ErrSessionNotActive
}

// Complete flips is_active in a single FindOneAndUpdate and returns the completed session
func (r *MongoGymSessionRepository) Complete(ctx context.Context, userID, sessionID string, at time.Time) (*domain.GymSession, error) {
	oid, err := objectID(sessionID, domain.ErrSessionNotFound)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid, "user_id": userID, "is_active": true}
	update := bson.M{"$set": bson.M{"is_active": false, "completed_at": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session domain.GymSession
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&session); err != nil {
		return nil, mapMongoError(err, domain.ErrSessionNotFound, nil)
	}
	return &session, nil
}

func (r *MongoGymSessionRepository) Delete(ctx context.Context, userID, id string) error {
	oid, err := objectID(id, domain.ErrSessionNotFound)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return mapMongoError(err, domain.ErrSessionNotFound, nil)
	}
	if result.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *MongoGymSessionRepository) findOneOrNil(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.GymSession, error) {
	findOpts := []*options.FindOneOptions{}
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	var session domain.GymSession
	err := r.collection.FindOne(ctx, filter, findOpts...).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, mapMongoError(err, domain.ErrSessionNotFound, nil)
	}
	return &session, nil
}

func (r *MongoGymSessionRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.GymSession, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapMongoError(err, domain.ErrSessionNotFound, nil)
	}
	defer cursor.Close(ctx)

	sessions := []*domain.GymSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, mapMongoError(err, domain.ErrSessionNotFound, nil)
	}
	return sessions, nil
}
