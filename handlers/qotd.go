package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"quotee/models"
)

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
}

// SendQOTD picks a random quote that has not been featured before,
// announces it to every verified user and pushes it to active web push
// subscriptions. Intended to be triggered by an external scheduler.
//
// POST /n/qotd
func (h *Handlers) SendQOTD(c *gin.Context) {
	if h.Cfg.CronSecret == "" || c.GetHeader("X-Cron-Secret") != h.Cfg.CronSecret {
		respondForbidden(c)
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	quote, err := h.Quotes.RandomUnfeatured(ctx)
	if err != nil {
		respondStoreError(c, err, "No quotes left to feature.")
		return
	}

	author, err := h.Users.FindByID(ctx, quote.AuthorID)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	notification := models.Notification{
		Announcer:      "Quotee",
		Name:           "Quote of the day",
		Description:    quote.Body,
		ProfilePicture: author.ProfilePicture,
		URL:            "/post/" + quote.ID.Hex(),
		CreatedAt:      time.Now().UTC(),
	}

	payload, err := json.Marshal(pushPayload{
		Title: "Quote of the day",
		Body:  quote.Body,
		Icon:  author.ProfilePicture,
		URL:   "/post/" + quote.ID.Hex(),
	})
	if err != nil {
		respondUpstream(c, err)
		return
	}

	subs, err := h.Push.All(ctx)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	sent := 0
	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
			Subscriber:      h.Cfg.VAPIDSubject,
			VAPIDPublicKey:  h.Cfg.VAPIDPublicKey,
			VAPIDPrivateKey: h.Cfg.VAPIDPrivate,
			TTL:             60 * 60 * 12,
		})
		if err != nil {
			log.Printf("push to %s failed: %v", sub.UserID.Hex(), err)
			continue
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			if err := h.Push.Delete(ctx, sub.ID); err != nil {
				log.Printf("removing stale subscription %s: %v", sub.ID.Hex(), err)
			}
		} else {
			sent++
		}
		resp.Body.Close()
	}

	if err := h.Users.NotifyAllVerified(ctx, notification); err != nil {
		respondUpstream(c, err)
		return
	}

	if err := h.Quotes.MarkQOTD(ctx, quote.ID); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote of the day sent.",
		"quoteId": quote.ID,
		"pushed":  sent,
	})
}
