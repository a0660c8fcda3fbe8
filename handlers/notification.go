package handlers

import (
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
)

// UserNotifications pages the caller's notifications newest first and
// marks the whole list read once a page has been served.
//
// GET /u/notifications?notifications=<cursor>
func (h *Handlers) UserNotifications(c *gin.Context) {
	userID, username, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	cursor := parseCursor(c, "notifications")

	ctx, cancel := dbContext()
	defer cancel()

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	total := int64(len(user.Notifications))
	reversed := make([]models.Notification, total)
	for i, n := range user.Notifications {
		reversed[total-int64(i)-1] = n
	}

	page := []models.Notification{}
	if cursor < total {
		end := cursor + notificationLimit
		if end > total {
			end = total
		}
		page = reversed[cursor:end]
	}

	if err := h.Users.MarkNotificationsRead(ctx, username); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": page,
		"hasMore":       hasMore(total, cursor, notificationLimit),
	})
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// POST /n/subscribe
func (h *Handlers) SubscribePush(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	sub := models.PushSubscription{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Sub: webpush.Subscription{
			Endpoint: req.Endpoint,
			Keys: webpush.Keys{
				P256dh: req.Keys.P256dh,
				Auth:   req.Keys.Auth,
			},
		},
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := dbContext()
	defer cancel()

	if err := h.Push.Upsert(ctx, &sub); err != nil {
		respondUpstream(c, err)
		return
	}
	if err := h.Users.SetAllowNotifications(ctx, userID, true); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed to notifications."})
}

// POST /n/unsubscribe
func (h *Handlers) UnsubscribePush(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	if err := h.Push.DeleteByUser(ctx, userID); err != nil {
		respondUpstream(c, err)
		return
	}
	if err := h.Users.SetAllowNotifications(ctx, userID, false); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed from notifications."})
}
