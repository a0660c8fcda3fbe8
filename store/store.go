package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quotee/models"
)

// Failure taxonomy shared by every store. Handlers translate these to HTTP
// status classes; anything else is treated as an upstream database failure.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// SearchCriteria drives the quote search query. Zero values mean "no
// constraint" except the date range, which is always applied.
type SearchCriteria struct {
	Body   string
	Author string
	Tags   []string
	From   time.Time
	To     time.Time
}

type QuoteStore interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, skip, limit int64) ([]models.Quote, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Quote, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID, bodyFilter string) ([]models.Quote, error)
	Search(ctx context.Context, crit SearchCriteria, skip, limit int64) ([]models.Quote, error)
	CountSearch(ctx context.Context, crit SearchCriteria) (int64, error)
	TopByLikes(ctx context.Context, limit int64) ([]models.Quote, error)
	RandomUnfeatured(ctx context.Context) (*models.Quote, error)
	Insert(ctx context.Context, quote *models.Quote) error
	Update(ctx context.Context, id primitive.ObjectID, body string, tags []string) (*models.Quote, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	MarkQOTD(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, username, fullName, phoneNumber, description string) (*models.User, error)
	PushPost(ctx context.Context, username string, postID primitive.ObjectID) error
	PullPost(ctx context.Context, username string, postID primitive.ObjectID) error
	AddFavorite(ctx context.Context, username string, postID primitive.ObjectID) (bool, error)
	RemoveFavorite(ctx context.Context, username string, postID primitive.ObjectID) (bool, error)
	PruneFavorites(ctx context.Context, postID primitive.ObjectID) (int64, error)
	AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	RemoveFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	AddFollower(ctx context.Context, targetID, followerID primitive.ObjectID) (bool, error)
	RemoveFollower(ctx context.Context, targetID, followerID primitive.ObjectID) (bool, error)
	AppendArchived(ctx context.Context, username string, entry models.ArchivedQuote) error
	RemoveArchived(ctx context.Context, username string, quoteID primitive.ObjectID) error
	Sample(ctx context.Context, excludeUsername string, size int64) ([]models.User, error)
	TopByFollowers(ctx context.Context, excludeUsername string, limit int64) ([]models.User, error)
	PushNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error
	NotifyAllVerified(ctx context.Context, n models.Notification) error
	MarkNotificationsRead(ctx context.Context, username string) error
	SetAllowNotifications(ctx context.Context, userID primitive.ObjectID, allow bool) error
}

type ReportStore interface {
	InsertPostReport(ctx context.Context, report *models.Report) error
	InsertUserReport(ctx context.Context, report *models.UserReport) error
}

type PushStore interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	All(ctx context.Context) ([]models.PushSubscription, error)
}

// Stores bundles the per-collection stores handed to the handlers.
type Stores struct {
	Quotes  QuoteStore
	Users   UserStore
	Reports ReportStore
	Push    PushStore
}

func New(db *mongo.Database) *Stores {
	return &Stores{
		Quotes:  &quoteStore{coll: db.Collection("quotes")},
		Users:   &userStore{coll: db.Collection("users")},
		Reports: &reportStore{posts: db.Collection("reports"), users: db.Collection("userReports")},
		Push:    &pushStore{coll: db.Collection("notifications")},
	}
}
