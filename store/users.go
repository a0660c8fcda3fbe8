package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quotee/models"
)

type userStore struct {
	coll *mongo.Collection
}

func (s *userStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *userStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *userStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) Insert(ctx context.Context, user *models.User) error {
	_, err := s.coll.InsertOne(ctx, user)
	return err
}

func (s *userStore) UpdateProfile(ctx context.Context, username, fullName, phoneNumber, description string) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"fullName":    fullName,
		"phoneNumber": phoneNumber,
		"description": description,
	}}

	var user models.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"username": username}, update, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) PushPost(ctx context.Context, username string, postID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$push": bson.M{"posts": postID}},
	)
	return err
}

func (s *userStore) PullPost(ctx context.Context, username string, postID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$pull": bson.M{"posts": postID}},
	)
	return err
}

// AddFavorite and friends are atomic set-adds/removes on membership lists.
// The boolean reports whether the list actually changed, which is what the
// toggle handlers branch on.
func (s *userStore) AddFavorite(ctx context.Context, username string, postID primitive.ObjectID) (bool, error) {
	return s.toggleAdd(ctx, bson.M{"username": username}, "favoritedPosts", postID)
}

func (s *userStore) RemoveFavorite(ctx context.Context, username string, postID primitive.ObjectID) (bool, error) {
	return s.togglePull(ctx, bson.M{"username": username}, "favoritedPosts", postID)
}

func (s *userStore) PruneFavorites(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	result, err := s.coll.UpdateMany(ctx,
		bson.M{"favoritedPosts": postID},
		bson.M{"$pull": bson.M{"favoritedPosts": postID}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (s *userStore) AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return s.toggleAdd(ctx, bson.M{"_id": userID}, "following", targetID)
}

func (s *userStore) RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return s.togglePull(ctx, bson.M{"_id": userID}, "following", targetID)
}

func (s *userStore) AddFollower(ctx context.Context, targetID, followerID primitive.ObjectID) (bool, error) {
	return s.toggleAdd(ctx, bson.M{"_id": targetID}, "followers", followerID)
}

func (s *userStore) RemoveFollower(ctx context.Context, targetID, followerID primitive.ObjectID) (bool, error) {
	return s.togglePull(ctx, bson.M{"_id": targetID}, "followers", followerID)
}

func (s *userStore) toggleAdd(ctx context.Context, filter bson.M, field string, id primitive.ObjectID) (bool, error) {
	filter[field] = bson.M{"$ne": id}
	result, err := s.coll.UpdateOne(ctx, filter, bson.M{"$addToSet": bson.M{field: id}})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

func (s *userStore) togglePull(ctx context.Context, filter bson.M, field string, id primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{field: id}})
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

func (s *userStore) AppendArchived(ctx context.Context, username string, entry models.ArchivedQuote) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$push": bson.M{"archivedPosts": entry}},
	)
	return err
}

func (s *userStore) RemoveArchived(ctx context.Context, username string, quoteID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$pull": bson.M{"archivedPosts": bson.M{"quotesId": quoteID}}},
	)
	return err
}

// Sample returns a uniform random sample of verified users excluding the
// caller. $sample may repeat documents; the caller deduplicates.
func (s *userStore) Sample(ctx context.Context, excludeUsername string, size int64) ([]models.User, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "isEmailVerified", Value: true},
			{Key: "username", Value: bson.D{{Key: "$ne", Value: excludeUsername}}},
		}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) TopByFollowers(ctx context.Context, excludeUsername string, limit int64) ([]models.User, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "isEmailVerified", Value: true},
			{Key: "username", Value: bson.D{{Key: "$ne", Value: excludeUsername}}},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "followersCount", Value: bson.D{{Key: "$size", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$followers", bson.A{}}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "followersCount", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) PushNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"notifications": n}},
	)
	return err
}

func (s *userStore) NotifyAllVerified(ctx context.Context, n models.Notification) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"isEmailVerified": true},
		bson.M{"$push": bson.M{"notifications": n}},
	)
	return err
}

func (s *userStore) MarkNotificationsRead(ctx context.Context, username string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"notifications.$[].read": true}},
	)
	return err
}

func (s *userStore) SetAllowNotifications(ctx context.Context, userID primitive.ObjectID, allow bool) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"allowNotifications": allow}},
	)
	return err
}
