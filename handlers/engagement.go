package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikePost toggles the caller's like on a post. The flip is an atomic
// set-remove-then-add at the store, so concurrent toggles from different
// users cannot lose each other's update. Responds with the updated post and
// the first page of liker summaries, most recent first.
//
// PATCH /p/:postId/likePost
func (h *Handlers) LikePost(c *gin.Context) {
	userID, _, ok := identity(c)
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

	if _, err := h.Quotes.FindByID(ctx, postID); err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	removed, err := h.Quotes.RemoveLike(ctx, postID, userID)
	if err != nil {
		respondUpstream(c, err)
		return
	}
	if !removed {
		if _, err := h.Quotes.AddLike(ctx, postID, userID); err != nil {
			respondUpstream(c, err)
			return
		}
	}

	updated, err := h.Quotes.FindByID(ctx, postID)
	if err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	window := sliceWindow(reverseIDs(updated.Likes), 0, feedLimit)
	likers, err := h.Users.FindByIDs(ctx, window)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updatedPost":  updated,
		"updatedLikes": summariesFor(window, likers, ""),
	})
}

// GetLikes pages through a post's likers, most recent first. The username
// filter applies within the sliced window only.
//
// GET /p/:postId/likes?username=&current=
func (h *Handlers) GetLikes(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid post id!"})
		return
	}

	cursor := parseCursor(c, "current")
	usernameFilter := c.Query("username")

	ctx, cancel := dbContext()
	defer cancel()

	quote, err := h.Quotes.FindByID(ctx, postID)
	if err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	total := int64(len(quote.Likes))
	window := sliceWindow(reverseIDs(quote.Likes), cursor, likesLimit)

	likers, err := h.Users.FindByIDs(ctx, window)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes":   summariesFor(window, likers, usernameFilter),
		"hasMore": hasMore(total, cursor, likesLimit),
	})
}

// FavoritePost toggles a post in the caller's favoritedPosts reference list
// and responds with both the raw id list and the joined favorites, newest
// first.
//
// PATCH /p/:postId/favoritePost
func (h *Handlers) FavoritePost(c *gin.Context) {
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

	if _, err := h.Quotes.FindByID(ctx, postID); err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	removed, err := h.Users.RemoveFavorite(ctx, username, postID)
	if err != nil {
		respondUpstream(c, err)
		return
	}
	if !removed {
		if _, err := h.Users.AddFavorite(ctx, username, postID); err != nil {
			respondUpstream(c, err)
			return
		}
	}

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	favorites, err := h.favoriteListing(ctx, user.FavoritedPosts)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updatedFavorites": user.FavoritedPosts,
		"newFavorites":     favorites,
	})
}

// UserFavorites lists the caller's favorites joined with their authors.
// Favorites are private: only the owner may list them.
//
// GET /u/:username/favorited
func (h *Handlers) UserFavorites(c *gin.Context) {
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

	favorites, err := h.favoriteListing(ctx, user.FavoritedPosts)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, favorites)
}
