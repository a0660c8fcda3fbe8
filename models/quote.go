package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quote is a live post in the quotes collection. Author name is denormalized
// next to the author reference so feeds don't need a join for it.
type Quote struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Body      string               `bson:"quotes" json:"quotes"`
	AuthorID  primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Author    string               `bson:"author" json:"author"`
	Tags      []string             `bson:"tags" json:"tags"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	QOTD      bool                 `bson:"qotd" json:"qotd"`
}

// StructuredQuote is the feed/search response shape: a quote joined with the
// author's current profile picture.
type StructuredQuote struct {
	ID             primitive.ObjectID   `json:"_id"`
	Body           string               `json:"quotes"`
	Author         string               `json:"author"`
	Tags           []string             `json:"tags"`
	Likes          []primitive.ObjectID `json:"likes"`
	CreatedAt      time.Time            `json:"createdAt"`
	ProfilePicture string               `json:"profilePicture"`
}
