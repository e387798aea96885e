package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flori/fittrack/internal/domain"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

const indexTimeout = 10 * time.Second

// mapMongoError translates driver errors into domain error kinds.
// notFound is returned for mongo.ErrNoDocuments; conflict for duplicate keys.
func mapMongoError(err error, notFound, conflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	if mongo.IsDuplicateKeyError(err) {
		if conflict != nil {
			return conflict
		}
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	return err
}

func isTransient(err error) bool {
	var sse topology.ServerSelectionError
	switch {
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return true
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, mongo.ErrClientDisconnected):
		return true
	case errors.As(err, &sse):
		return true
	}
	return false
}

// objectID parses a hex id; malformed ids can never match so they map to notFound.
func objectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

// insertedHex returns the hex form of an InsertOne result id.
func insertedHex(result *mongo.InsertOneResult) string {
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func ensureIndexes(coll *mongo.Collection, models ...mongo.IndexModel) {
	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		logrus.WithError(err).WithField("collection", coll.Name()).Warn("failed to create indexes")
	}
}
