package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"quotee/models"
)

type reportStore struct {
	posts *mongo.Collection
	users *mongo.Collection
}

func (s *reportStore) InsertPostReport(ctx context.Context, report *models.Report) error {
	_, err := s.posts.InsertOne(ctx, report)
	return err
}

func (s *reportStore) InsertUserReport(ctx context.Context, report *models.UserReport) error {
	_, err := s.users.InsertOne(ctx, report)
	return err
}
