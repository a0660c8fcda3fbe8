package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
	"quotee/store"
)

type mockQuoteStore struct{ mock.Mock }

func (m *mockQuoteStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuoteStore) List(ctx context.Context, skip, limit int64) ([]models.Quote, error) {
	args := m.Called(ctx, skip, limit)
	return args.Get(0).([]models.Quote), args.Error(1)
}

func (m *mockQuoteStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *mockQuoteStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID, bodyFilter string) ([]models.Quote, error) {
	args := m.Called(ctx, ids, bodyFilter)
	return args.Get(0).([]models.Quote), args.Error(1)
}

func (m *mockQuoteStore) Search(ctx context.Context, crit store.SearchCriteria, skip, limit int64) ([]models.Quote, error) {
	args := m.Called(ctx, crit, skip, limit)
	return args.Get(0).([]models.Quote), args.Error(1)
}

func (m *mockQuoteStore) CountSearch(ctx context.Context, crit store.SearchCriteria) (int64, error) {
	args := m.Called(ctx, crit)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuoteStore) TopByLikes(ctx context.Context, limit int64) ([]models.Quote, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Quote), args.Error(1)
}

func (m *mockQuoteStore) RandomUnfeatured(ctx context.Context) (*models.Quote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *mockQuoteStore) Insert(ctx context.Context, quote *models.Quote) error {
	return m.Called(ctx, quote).Error(0)
}

func (m *mockQuoteStore) Update(ctx context.Context, id primitive.ObjectID, body string, tags []string) (*models.Quote, error) {
	args := m.Called(ctx, id, body, tags)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *mockQuoteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockQuoteStore) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuoteStore) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuoteStore) MarkQOTD(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserStore) Insert(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, username, fullName, phoneNumber, description string) (*models.User, error) {
	args := m.Called(ctx, username, fullName, phoneNumber, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserStore) PushPost(ctx context.Context, username string, postID primitive.ObjectID) error {
	return m.Called(ctx, username, postID).Error(0)
}

func (m *mockUserStore) PullPost(ctx context.Context, username string, postID primitive.ObjectID) error {
	return m.Called(ctx, username, postID).Error(0)
}

func (m *mockUserStore) AddFavorite(ctx context.Context, username string, postID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, username, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) RemoveFavorite(ctx context.Context, username string, postID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, username, postID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) PruneFavorites(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserStore) AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, userID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, userID, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) AddFollower(ctx context.Context, targetID, followerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, targetID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) RemoveFollower(ctx context.Context, targetID, followerID primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, targetID, followerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) AppendArchived(ctx context.Context, username string, entry models.ArchivedQuote) error {
	return m.Called(ctx, username, entry).Error(0)
}

func (m *mockUserStore) RemoveArchived(ctx context.Context, username string, quoteID primitive.ObjectID) error {
	return m.Called(ctx, username, quoteID).Error(0)
}

func (m *mockUserStore) Sample(ctx context.Context, excludeUsername string, size int64) ([]models.User, error) {
	args := m.Called(ctx, excludeUsername, size)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserStore) TopByFollowers(ctx context.Context, excludeUsername string, limit int64) ([]models.User, error) {
	args := m.Called(ctx, excludeUsername, limit)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserStore) PushNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error {
	return m.Called(ctx, userID, n).Error(0)
}

func (m *mockUserStore) NotifyAllVerified(ctx context.Context, n models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockUserStore) MarkNotificationsRead(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *mockUserStore) SetAllowNotifications(ctx context.Context, userID primitive.ObjectID, allow bool) error {
	return m.Called(ctx, userID, allow).Error(0)
}

type mockReportStore struct{ mock.Mock }

func (m *mockReportStore) InsertPostReport(ctx context.Context, report *models.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockReportStore) InsertUserReport(ctx context.Context, report *models.UserReport) error {
	return m.Called(ctx, report).Error(0)
}

type mockPushStore struct{ mock.Mock }

func (m *mockPushStore) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockPushStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockPushStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPushStore) All(ctx context.Context) ([]models.PushSubscription, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.PushSubscription), args.Error(1)
}

// quoteAt builds a quote with a deterministic creation time so ordering
// assertions stay stable.
func quoteAt(author string, authorID primitive.ObjectID, body string, minute int) models.Quote {
	return models.Quote{
		ID:        primitive.NewObjectID(),
		Body:      body,
		AuthorID:  authorID,
		Author:    author,
		Tags:      []string{"life"},
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Date(2025, 6, 1, 12, minute, 0, 0, time.UTC),
	}
}
