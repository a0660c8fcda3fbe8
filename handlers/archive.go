package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
	"quotee/store"
)

// structureArchived renders an archive listing, most recently archived
// first. Snapshots are appended on write, so the stored order is reversed on
// read. All entries belong to one author, whose current picture is joined.
func structureArchived(entries []models.ArchivedQuote, profilePicture string) []gin.H {
	structured := make([]gin.H, len(entries))
	for i, entry := range entries {
		structured[len(entries)-1-i] = gin.H{
			"_id":            entry.QuoteID,
			"quotes":         entry.Body,
			"author":         entry.Author,
			"tags":           entry.Tags,
			"likes":          entry.Likes,
			"createdAt":      entry.CreatedAt,
			"archivedAt":     entry.ArchivedAt,
			"profilePicture": profilePicture,
		}
	}
	return structured
}

func findArchived(entries []models.ArchivedQuote, quoteID primitive.ObjectID) (models.ArchivedQuote, bool) {
	for _, entry := range entries {
		if entry.QuoteID == quoteID {
			return entry, true
		}
	}
	return models.ArchivedQuote{}, false
}

// ArchivePost moves a live post into the author's archive: the quote is
// snapshotted into user.archivedPosts, its id removed from user.posts, and
// the live document deleted. The three writes are independent; validation
// and the ownership check run before any of them.
//
// PATCH /p/:postId/archivePost
func (h *Handlers) ArchivePost(c *gin.Context) {
	_, username, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid post id!"})
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	quote, err := h.Quotes.FindByID(ctx, postID)
	if err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	if quote.Author != username {
		respondForbidden(c)
		return
	}

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	if _, archived := findArchived(user.ArchivedPosts, postID); archived {
		c.JSON(http.StatusConflict, gin.H{"message": "Post is already archived."})
		return
	}

	entry := models.ArchivedQuote{
		QuoteID:    quote.ID,
		Body:       quote.Body,
		AuthorID:   quote.AuthorID,
		Author:     quote.Author,
		Tags:       quote.Tags,
		Likes:      quote.Likes,
		CreatedAt:  quote.CreatedAt,
		ArchivedAt: time.Now().UTC(),
		QOTD:       quote.QOTD,
	}

	if err := h.Users.AppendArchived(ctx, username, entry); err != nil {
		respondUpstream(c, err)
		return
	}

	if err := h.Users.PullPost(ctx, username, postID); err != nil {
		respondUpstream(c, err)
		return
	}

	if err := h.Quotes.Delete(ctx, postID); err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"archivedPosts":  structureArchived(append(user.ArchivedPosts, entry), user.ProfilePicture),
		"archivedPostId": postID,
	})
}

// UnarchivePost re-posts an archived quote under its original id and drops
// the snapshot. Likes are reset by design; id, body, tags, author and the
// original creation time are restored.
//
// PATCH /p/:postId/unarchivePost
func (h *Handlers) UnarchivePost(c *gin.Context) {
	_, username, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid post id!"})
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	// A live copy means the post is not archived.
	if _, err := h.Quotes.FindByID(ctx, postID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Post is not archived!"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondUpstream(c, err)
		return
	}

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	entry, archived := findArchived(user.ArchivedPosts, postID)
	if !archived {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post is not archived!"})
		return
	}

	repost := models.Quote{
		ID:        entry.QuoteID,
		Body:      entry.Body,
		AuthorID:  entry.AuthorID,
		Author:    entry.Author,
		Tags:      entry.Tags,
		Likes:     []primitive.ObjectID{},
		CreatedAt: entry.CreatedAt,
		QOTD:      entry.QOTD,
	}

	if err := h.Quotes.Insert(ctx, &repost); err != nil {
		respondUpstream(c, err)
		return
	}

	if err := h.Users.PushPost(ctx, username, entry.QuoteID); err != nil {
		respondUpstream(c, err)
		return
	}

	if err := h.Users.RemoveArchived(ctx, username, entry.QuoteID); err != nil {
		respondUpstream(c, err)
		return
	}

	remaining := make([]models.ArchivedQuote, 0, len(user.ArchivedPosts)-1)
	for _, e := range user.ArchivedPosts {
		if e.QuoteID != entry.QuoteID {
			remaining = append(remaining, e)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"archived":       structureArchived(remaining, user.ProfilePicture),
		"unarchivedPost": structureQuotes([]models.Quote{repost}, map[primitive.ObjectID]string{repost.AuthorID: user.ProfilePicture})[0],
	})
}

// UserArchived lists the caller's archive, most recently archived first.
// Archives are private: only the owner may list them.
//
// GET /u/:username/archived
func (h *Handlers) UserArchived(c *gin.Context) {
	_, authUsername, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	username := c.Param("username")
	if username != authUsername {
		respondForbidden(c)
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	c.JSON(http.StatusOK, structureArchived(user.ArchivedPosts, user.ProfilePicture))
}
