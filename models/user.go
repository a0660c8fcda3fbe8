package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the root of the social graph. Follower/following edges are stored
// redundantly on both sides. FavoritedPosts holds references to live quotes;
// ArchivedPosts holds frozen snapshots because the live document is deleted
// on archive.
type User struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username           string               `bson:"username" json:"username"`
	Email              string               `bson:"email" json:"email"`
	Password           string               `bson:"password" json:"-"`
	FullName           string               `bson:"fullName" json:"fullName"`
	Description        string               `bson:"description" json:"description"`
	PhoneNumber        string               `bson:"phoneNumber" json:"phoneNumber"`
	ProfilePicture     string               `bson:"profilePicture" json:"profilePicture"`
	Role               string               `bson:"role" json:"role"` // root, admin, user
	IsEmailVerified    bool                 `bson:"isEmailVerified" json:"isEmailVerified"`
	AllowNotifications bool                 `bson:"allowNotifications" json:"allowNotifications"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	Followers          []primitive.ObjectID `bson:"followers" json:"followers"`
	Following          []primitive.ObjectID `bson:"following" json:"following"`
	Posts              []primitive.ObjectID `bson:"posts" json:"posts"`
	FavoritedPosts     []primitive.ObjectID `bson:"favoritedPosts" json:"favoritedPosts"`
	ArchivedPosts      []ArchivedQuote      `bson:"archivedPosts" json:"archivedPosts"`
	Notifications      []Notification       `bson:"notifications" json:"notifications"`
}

// ArchivedQuote is a denormalized snapshot of a quote embedded in the
// author's document. It keeps the original id so the quote can be re-posted
// under it.
type ArchivedQuote struct {
	QuoteID    primitive.ObjectID   `bson:"quotesId" json:"quotesId"`
	Body       string               `bson:"quotes" json:"quotes"`
	AuthorID   primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Author     string               `bson:"author" json:"author"`
	Tags       []string             `bson:"tags" json:"tags"`
	Likes      []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
	ArchivedAt time.Time            `bson:"archivedAt" json:"archivedAt"`
	QOTD       bool                 `bson:"qotd" json:"qotd"`
}

// Notification is an embedded per-user notification with a read flag.
type Notification struct {
	Announcer      string    `bson:"announcer" json:"announcer"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description" json:"description"`
	ProfilePicture string    `bson:"profilePicture" json:"profilePicture"`
	URL            string    `bson:"url" json:"url"`
	Read           bool      `bson:"read" json:"read"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// UserSummary is the joined profile shape returned by follower/following,
// liker and suggestion listings.
type UserSummary struct {
	UserID         primitive.ObjectID `json:"userId"`
	Username       string             `json:"username"`
	Posts          int                `json:"posts"`
	ProfilePicture string             `json:"profilePicture"`
}
