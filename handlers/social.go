package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
)

// FollowUser toggles the follow edge between the caller and the target. The
// edge is stored on both documents and both sides are flipped with atomic
// set updates, but the pair itself is not atomic: a crash in between leaves
// an asymmetric edge until a reconciliation pass repairs it.
//
// PATCH /u/follow/:targetId
func (h *Handlers) FollowUser(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("targetId"))
	if err != nil || targetID == userID {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid target id!"})
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	if _, err := h.Users.FindByID(ctx, targetID); err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	removed, err := h.Users.RemoveFollowing(ctx, userID, targetID)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	if removed {
		if _, err := h.Users.RemoveFollower(ctx, targetID, userID); err != nil {
			respondUpstream(c, err)
			return
		}
	} else {
		if _, err := h.Users.AddFollowing(ctx, userID, targetID); err != nil {
			respondUpstream(c, err)
			return
		}
		if _, err := h.Users.AddFollower(ctx, targetID, userID); err != nil {
			respondUpstream(c, err)
			return
		}
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}
	target, err := h.Users.FindByID(ctx, targetID)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following": user.Following,
		"followers": target.Followers,
	})
}

// followListing pages through a stored edge list. The window is sliced
// before the profile join, and the username filter applies only within that
// window — matches outside the current page are not pulled in.
func (h *Handlers) followListing(c *gin.Context, pick func(*models.User) []primitive.ObjectID, key string) {
	username := c.Param("username")
	usernameFilter := c.Query("username")
	cursor := parseCursor(c, "current")

	ctx, cancel := dbContext()
	defer cancel()

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	edges := pick(user)
	total := int64(len(edges))
	window := sliceWindow(edges, cursor, followLimit)

	profiles, err := h.Users.FindByIDs(ctx, window)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		key:       summariesFor(window, profiles, usernameFilter),
		"hasMore": hasMore(total, cursor, followLimit),
	})
}

// GET /u/:username/following?username=&current=
func (h *Handlers) UserFollowing(c *gin.Context) {
	h.followListing(c, func(u *models.User) []primitive.ObjectID { return u.Following }, "following")
}

// GET /u/:username/followers?username=&current=
func (h *Handlers) UserFollowers(c *gin.Context) {
	h.followListing(c, func(u *models.User) []primitive.ObjectID { return u.Followers }, "followers")
}

// UserSuggestion returns up to six verified users the caller might follow,
// drawn from a uniform random sample and deduplicated.
//
// GET /u/usersuggestion
func (h *Handlers) UserSuggestion(c *gin.Context) {
	_, username, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	sampled, err := h.Users.Sample(ctx, username, suggestionSample)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	seen := make(map[primitive.ObjectID]bool)
	suggestions := make([]models.UserSummary, 0, suggestionLimit)
	for _, u := range sampled {
		if seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		suggestions = append(suggestions, models.UserSummary{
			UserID:         u.ID,
			Username:       u.Username,
			Posts:          len(u.Posts),
			ProfilePicture: u.ProfilePicture,
		})
		if len(suggestions) == suggestionLimit {
			break
		}
	}

	c.JSON(http.StatusOK, suggestions)
}

// TopUsers returns the four most followed verified users, excluding the
// caller.
//
// GET /u/topuser
func (h *Handlers) TopUsers(c *gin.Context) {
	_, username, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	users, err := h.Users.TopByFollowers(ctx, username, topUsersLimit)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	top := make([]gin.H, len(users))
	for i, u := range users {
		top[i] = gin.H{
			"username":       u.Username,
			"userId":         u.ID,
			"followers":      len(u.Followers),
			"profilePicture": u.ProfilePicture,
		}
	}

	c.JSON(http.StatusOK, top)
}

// GET /u/:username
func (h *Handlers) UserProfile(c *gin.Context) {
	ctx, cancel := dbContext()
	defer cancel()

	user, err := h.Users.FindByUsername(ctx, c.Param("username"))
	if err != nil {
		respondStoreError(c, err, "Can't find user!")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":         user.ID,
		"username":       user.Username,
		"fullName":       user.FullName,
		"profilePicture": user.ProfilePicture,
		"description":    user.Description,
		"followers":      user.Followers,
		"following":      user.Following,
		"postAmount":     len(user.Posts),
	})
}

// GET /u/:username/settings
func (h *Handlers) UserSettings(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"fullName":       user.FullName,
		"email":          user.Email,
		"description":    user.Description,
		"phoneNumber":    user.PhoneNumber,
		"profilePicture": user.ProfilePicture,
	})
}

type UpdateProfileRequest struct {
	Username    string `json:"username" binding:"required"`
	FullName    string `json:"fullName" binding:"required,max=30"`
	PhoneNumber string `json:"phoneNumber" binding:"max=20"`
	Description string `json:"description" binding:"max=160"`
}

// PATCH /u/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	_, authUsername, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Username != authUsername {
		respondForbidden(c)
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	user, err := h.Users.UpdateProfile(ctx, authUsername, req.FullName, req.PhoneNumber, req.Description)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fullName":    user.FullName,
		"phoneNumber": user.PhoneNumber,
		"description": user.Description,
		"message":     "Your profile has been updated successfully.",
	})
}
