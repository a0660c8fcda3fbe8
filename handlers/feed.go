package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
	"quotee/store"
)

const searchDateLayout = "02/01/2006"

// searchEpoch is the lower bound applied when no fromDate is given.
var searchEpoch = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// GetPosts returns one page of the global feed, newest first, each quote
// joined with its author's current profile picture.
//
// GET /p?quotes=<cursor>
func (h *Handlers) GetPosts(c *gin.Context) {
	cursor := parseCursor(c, "quotes")

	ctx, cancel := dbContext()
	defer cancel()

	total, err := h.Quotes.Count(ctx)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	quotes, err := h.Quotes.List(ctx, cursor, feedLimit)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	posts, err := h.withPictures(ctx, quotes)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":   posts,
		"hasMore": hasMore(total, cursor, feedLimit),
	})
}

// GET /p/:postId
func (h *Handlers) GetPost(c *gin.Context) {
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

	posts, err := h.withPictures(ctx, []models.Quote{*quote})
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, posts[0])
}

// UserPosts lists one user's quotes, newest first, with an optional
// case-insensitive substring filter on the body. The window is sliced after
// filtering, but hasMore is derived from the unfiltered post count.
//
// GET /u/:username/p?quotes=<filter>&current=<cursor>
func (h *Handlers) UserPosts(c *gin.Context) {
	username := c.Param("username")
	bodyFilter := c.Query("quotes")
	cursor := parseCursor(c, "current")

	ctx, cancel := dbContext()
	defer cancel()

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	total := int64(len(user.Posts))

	quotes, err := h.Quotes.FindByIDs(ctx, user.Posts, bodyFilter)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	start := cursor
	if start > int64(len(quotes)) {
		start = int64(len(quotes))
	}
	end := start + feedLimit
	if end > int64(len(quotes)) {
		end = int64(len(quotes))
	}

	posts, err := h.withPictures(ctx, quotes[start:end])
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":   posts,
		"hasMore": hasMore(total, cursor, feedLimit),
	})
}

// SearchPosts filters quotes by body/author substring, tag membership and an
// inclusive creation date range. The total is counted with a separate query
// so hasMore reflects the whole result set, not just this page.
//
// GET /p/search?quotes=&author=&tags=&fromDate=&toDate=&current=
func (h *Handlers) SearchPosts(c *gin.Context) {
	cursor := parseCursor(c, "current")

	crit := store.SearchCriteria{
		Body:   c.Query("quotes"),
		Author: c.Query("author"),
	}

	if tags := c.Query("tags"); tags != "" && tags != "null" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				crit.Tags = append(crit.Tags, tag)
			}
		}
	}

	var err error
	crit.From, crit.To, err = parseSearchDates(c.Query("fromDate"), c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date, use DD/MM/YYYY."})
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	total, err := h.Quotes.CountSearch(ctx, crit)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	quotes, err := h.Quotes.Search(ctx, crit, cursor, feedLimit)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	posts, err := h.withPictures(ctx, quotes)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":   posts,
		"hasMore": hasMore(total, cursor, feedLimit),
	})
}

// parseSearchDates resolves the DD/MM/YYYY range parameters. Missing bounds
// default to 01/01/2021 and the end of today; the range is inclusive, so the
// upper bound extends to the following midnight.
func parseSearchDates(fromDate, toDate string) (from, to time.Time, err error) {
	from = searchEpoch
	if fromDate != "" && fromDate != "null" {
		from, err = time.ParseInLocation(searchDateLayout, fromDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	to = time.Now().UTC()
	if toDate != "" && toDate != "null" {
		to, err = time.ParseInLocation(searchDateLayout, toDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = to.AddDate(0, 0, 1)
	}

	return from, to, nil
}

// TopQuotes returns the four most liked quotes.
//
// GET /p/top
func (h *Handlers) TopQuotes(c *gin.Context) {
	ctx, cancel := dbContext()
	defer cancel()

	quotes, err := h.Quotes.TopByLikes(ctx, topQuotesLimit)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	top := make([]gin.H, len(quotes))
	for i, q := range quotes {
		top[i] = gin.H{
			"quotes":   q.Body,
			"quotesId": q.ID,
			"author":   q.Author,
		}
	}

	c.JSON(http.StatusOK, top)
}
