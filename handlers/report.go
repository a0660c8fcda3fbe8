package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
)

var postReportReasons = map[string]string{
	"001": "It's spam.",
	"002": "It's inappropriate.",
	"003": "It's offensive.",
	"004": "It's not original content.",
}

var userReportReasons = map[string]string{
	"001": "This account is a spam account.",
	"002": "This account posts inappropriate content.",
	"003": "This account is pretending to be someone else.",
	"004": "This account is harassing other users.",
}

// PATCH /p/:postId/report?code=<reason>
func (h *Handlers) ReportPost(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	code := c.Query("code")
	reason, known := postReportReasons[code]
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid report reason."})
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found!"})
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	quote, err := h.Quotes.FindByID(ctx, postID)
	if err != nil {
		respondStoreError(c, err, "Post not found!")
		return
	}

	if quote.AuthorID == userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can't report your own post."})
		return
	}

	report := models.Report{
		ID:         primitive.NewObjectID(),
		IssuedBy:   userID,
		PostID:     quote.ID,
		PostAuthor: quote.AuthorID,
		ReasonCode: code,
		ReasonText: reason,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Reports.InsertPostReport(ctx, &report); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thanks for reporting, we will look into this."})
}

type UserReportRequest struct {
	Code        string `json:"code" binding:"required"`
	Description string `json:"description" binding:"max=300"`
}

// PATCH /u/:username/report
func (h *Handlers) ReportUser(c *gin.Context) {
	userID, username, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var req UserReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	reason, known := userReportReasons[req.Code]
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid report reason."})
		return
	}

	target := c.Param("username")
	if target == username {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can't report yourself."})
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	reported, err := h.Users.FindByUsername(ctx, target)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	report := models.UserReport{
		ID:          primitive.NewObjectID(),
		IssuedBy:    userID,
		UserID:      reported.ID,
		ReasonCode:  req.Code,
		ReasonText:  reason,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Reports.InsertUserReport(ctx, &report); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thanks for reporting, we will look into this."})
}
