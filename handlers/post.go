package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
)

// editWindow is how long after creation the author may still edit a quote.
const editWindow = time.Hour

var whitespacePattern = regexp.MustCompile(`\s+`)

type QuoteRequest struct {
	Body string   `json:"quotes" binding:"required,min=20,max=200"`
	Tags []string `json:"tags" binding:"required,min=1,max=5,dive,required,max=30,tagchars"`
}

func cleanBody(body string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(body, " "))
}

// CreatePost stores a new quote and registers its id on the author document.
//
// POST /p
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, username, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	quote := models.Quote{
		ID:        primitive.NewObjectID(),
		Body:      cleanBody(req.Body),
		AuthorID:  userID,
		Author:    username,
		Tags:      req.Tags,
		Likes:     []primitive.ObjectID{},
		CreatedAt: time.Now().UTC(),
		QOTD:      false,
	}

	ctx, cancel := dbContext()
	defer cancel()

	if err := h.Quotes.Insert(ctx, &quote); err != nil {
		respondUpstream(c, err)
		return
	}

	if err := h.Users.PushPost(ctx, username, quote.ID); err != nil {
		respondUpstream(c, err)
		return
	}

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"postId":  quote.ID,
		"message": "Successfully created a new quotes.",
		"author":  quote.Author,
		"newPost": structureQuotes([]models.Quote{quote}, map[primitive.ObjectID]string{userID: user.ProfilePicture})[0],
	})
}

// EditPost updates body and tags. Only the author may edit, and only within
// one hour of creation.
//
// PATCH /p/:postId
func (h *Handlers) EditPost(c *gin.Context) {
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

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
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

	if time.Since(quote.CreatedAt) > editWindow {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Post was created more than 1 hour ago."})
		return
	}

	updated, err := h.Quotes.Update(ctx, postID, cleanBody(req.Body), req.Tags)
	if err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	posts, err := h.withPictures(ctx, []models.Quote{*updated})
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Post successfully updated.",
		"editedPost": posts[0],
	})
}

// GetEditPost returns the editable fields of an owned post.
//
// GET /p/:postId/edit
func (h *Handlers) GetEditPost(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"_id":    quote.ID,
		"quotes": quote.Body,
		"tags":   quote.Tags,
	})
}

// DeletePost removes a live post and fans the removal out: the id is pulled
// from the author's posts and from every user's favoritedPosts. The fan-out
// is a sequence of independent writes; a mid-sequence failure surfaces as an
// error without compensation.
//
// DELETE /p/:postId
func (h *Handlers) DeletePost(c *gin.Context) {
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

	if err := h.Quotes.Delete(ctx, postID); err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	if err := h.Users.PullPost(ctx, username, postID); err != nil {
		respondUpstream(c, err)
		return
	}

	if _, err := h.Users.PruneFavorites(ctx, postID); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post successfully deleted.",
		"postId":  postID,
	})
}
