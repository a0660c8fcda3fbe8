package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quotee/models"
)

type pushStore struct {
	coll *mongo.Collection
}

// Upsert keeps at most one subscription per user: re-subscribing from a new
// browser replaces the old endpoint.
func (s *pushStore) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"userId": sub.UserID},
		bson.M{"$set": bson.M{
			"userId":       sub.UserID,
			"subscription": sub.Sub,
			"createdAt":    sub.CreatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *pushStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

func (s *pushStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *pushStore) All(ctx context.Context) ([]models.PushSubscription, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []models.PushSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
