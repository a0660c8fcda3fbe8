package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is an immutable record of a post being reported.
type Report struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssuedBy   primitive.ObjectID `bson:"issuedBy" json:"issuedBy"`
	PostID     primitive.ObjectID `bson:"postId" json:"postId"`
	PostAuthor primitive.ObjectID `bson:"postAuthor" json:"postAuthor"`
	ReasonCode string             `bson:"reasonCode" json:"reasonCode"`
	ReasonText string             `bson:"reasonText" json:"reasonText"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserReport is an immutable record of a user being reported.
type UserReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IssuedBy    primitive.ObjectID `bson:"issuedBy" json:"issuedBy"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ReasonCode  string             `bson:"reasonCode" json:"reasonCode"`
	ReasonText  string             `bson:"reasonText" json:"reasonText"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
