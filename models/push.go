package models

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PushSubscription stores one browser push subscription per user. Delivery
// itself happens through webpush; this is only the persisted endpoint.
type PushSubscription struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID   `bson:"userId" json:"userId"`
	Sub       webpush.Subscription `bson:"subscription" json:"subscription"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}
