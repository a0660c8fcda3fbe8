package store

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quotee/models"
)

type quoteStore struct {
	coll *mongo.Collection
}

func (s *quoteStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}

func (s *quoteStore) List(ctx context.Context, skip, limit int64) ([]models.Quote, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *quoteStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quote, error) {
	var quote models.Quote
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&quote)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *quoteStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID, bodyFilter string) ([]models.Quote, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}
	if bodyFilter != "" {
		filter["quotes"] = substringRegex(bodyFilter)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *quoteStore) Search(ctx context.Context, crit SearchCriteria, skip, limit int64) ([]models.Quote, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, searchFilter(crit), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *quoteStore) CountSearch(ctx context.Context, crit SearchCriteria) (int64, error) {
	return s.coll.CountDocuments(ctx, searchFilter(crit))
}

// TopByLikes sorts by the size of the likes array, not by the array itself,
// so a post with many likes always outranks one with few.
func (s *quoteStore) TopByLikes(ctx context.Context, limit int64) ([]models.Quote, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{
			{Key: "likesCount", Value: bson.D{{Key: "$size", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "likesCount", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *quoteStore) RandomUnfeatured(ctx context.Context) (*models.Quote, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "qotd", Value: false}}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: 1}}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, ErrNotFound
	}
	return &quotes[0], nil
}

func (s *quoteStore) Insert(ctx context.Context, quote *models.Quote) error {
	_, err := s.coll.InsertOne(ctx, quote)
	return err
}

func (s *quoteStore) Update(ctx context.Context, id primitive.ObjectID, body string, tags []string) (*models.Quote, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"quotes": body, "tags": tags}}

	var quote models.Quote
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&quote)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *quoteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddLike is an atomic set-add: the filter excludes documents that already
// contain the liker, so concurrent toggles can't double-append.
func (s *quoteStore) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

func (s *quoteStore) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	result, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

func (s *quoteStore) MarkQOTD(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"qotd": true}})
	return err
}

// searchFilter builds the find filter for quote search. Substring matches are
// case-insensitive and literal (user input is escaped), the date range is
// inclusive on both ends.
func searchFilter(crit SearchCriteria) bson.M {
	filter := bson.M{
		"createdAt": bson.M{"$gte": crit.From, "$lte": crit.To},
	}
	if crit.Body != "" {
		filter["quotes"] = substringRegex(crit.Body)
	}
	if crit.Author != "" {
		filter["author"] = substringRegex(crit.Author)
	}
	if len(crit.Tags) > 0 {
		filter["tags"] = bson.M{"$in": crit.Tags}
	}
	return filter
}

func substringRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}
