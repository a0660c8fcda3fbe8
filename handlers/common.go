package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/config"
	"quotee/models"
	"quotee/store"
)

// Page sizes mirror the web client's expectations.
const (
	feedLimit         = 10
	likesLimit        = 20
	followLimit       = 20
	notificationLimit = 10
	topQuotesLimit    = 4
	topUsersLimit     = 4
	suggestionSample  = 100
	suggestionLimit   = 6
)

const dbTimeout = 10 * time.Second

// Starter avatars assigned round-robin at signup until the user uploads one.
var starterAvatars = []string{
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar01.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar02.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar03.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar04.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar05.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar06.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar07.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar08.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar09.webp",
	"https://res.cloudinary.com/quoteequotesid/image/upload/system/avatars/avatar10.webp",
}

// Handlers carries the stores so tests can swap in mocks.
type Handlers struct {
	Quotes  store.QuoteStore
	Users   store.UserStore
	Reports store.ReportStore
	Push    store.PushStore
	Cfg     *config.Config
}

func New(s *store.Stores, cfg *config.Config) *Handlers {
	return &Handlers{
		Quotes:  s.Quotes,
		Users:   s.Users,
		Reports: s.Reports,
		Push:    s.Push,
		Cfg:     cfg,
	}
}

func dbContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// identity returns the authenticated caller set by the JWT middleware.
// ok is false when the request carries no usable identity.
func identity(c *gin.Context) (userID primitive.ObjectID, username string, ok bool) {
	username = c.GetString("username")
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil || username == "" {
		return primitive.NilObjectID, "", false
	}
	return userID, username, true
}

// parseCursor reads a numeric offset query parameter, defaulting to 0.
func parseCursor(c *gin.Context, key string) int64 {
	cursor, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || cursor < 0 {
		return 0
	}
	return cursor
}

// hasMore reports whether another page exists past cursor. A result set
// smaller than one page never has more, regardless of cursor.
func hasMore(total, cursor, limit int64) bool {
	if total < limit {
		return false
	}
	return total > cursor+limit
}

// sliceWindow returns ids[cursor : cursor+limit] with bounds clamping.
func sliceWindow(ids []primitive.ObjectID, cursor, limit int64) []primitive.ObjectID {
	if cursor >= int64(len(ids)) {
		return nil
	}
	end := cursor + limit
	if end > int64(len(ids)) {
		end = int64(len(ids))
	}
	return ids[cursor:end]
}

func reverseIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	reversed := make([]primitive.ObjectID, len(ids))
	for i, id := range ids {
		reversed[len(ids)-1-i] = id
	}
	return reversed
}

func pictureMap(users []models.User) map[primitive.ObjectID]string {
	pictures := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		pictures[u.ID] = u.ProfilePicture
	}
	return pictures
}

func structureQuotes(quotes []models.Quote, pictures map[primitive.ObjectID]string) []models.StructuredQuote {
	structured := make([]models.StructuredQuote, len(quotes))
	for i, q := range quotes {
		structured[i] = models.StructuredQuote{
			ID:             q.ID,
			Body:           q.Body,
			Author:         q.Author,
			Tags:           q.Tags,
			Likes:          q.Likes,
			CreatedAt:      q.CreatedAt,
			ProfilePicture: pictures[q.AuthorID],
		}
	}
	return structured
}

// withPictures joins quotes with their authors' current profile pictures.
func (h *Handlers) withPictures(ctx context.Context, quotes []models.Quote) ([]models.StructuredQuote, error) {
	seen := make(map[primitive.ObjectID]bool)
	var authorIDs []primitive.ObjectID
	for _, q := range quotes {
		if !seen[q.AuthorID] {
			seen[q.AuthorID] = true
			authorIDs = append(authorIDs, q.AuthorID)
		}
	}

	var authors []models.User
	if len(authorIDs) > 0 {
		var err error
		authors, err = h.Users.FindByIDs(ctx, authorIDs)
		if err != nil {
			return nil, err
		}
	}
	return structureQuotes(quotes, pictureMap(authors)), nil
}

// favoriteListing joins a favorites reference list, newest first. Favorites
// point at live quotes, so the join always reflects their current state.
func (h *Handlers) favoriteListing(ctx context.Context, favoriteIDs []primitive.ObjectID) ([]models.StructuredQuote, error) {
	if len(favoriteIDs) == 0 {
		return []models.StructuredQuote{}, nil
	}
	quotes, err := h.Quotes.FindByIDs(ctx, favoriteIDs, "")
	if err != nil {
		return nil, err
	}
	return h.withPictures(ctx, quotes)
}

// summariesFor resolves an ordered id window to profile summaries, applying
// an optional case-insensitive username substring filter. The filter only
// sees the window that was sliced before the join.
func summariesFor(ids []primitive.ObjectID, users []models.User, usernameFilter string) []models.UserSummary {
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	needle := strings.ToLower(usernameFilter)
	summaries := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		u, found := byID[id]
		if !found {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(u.Username), needle) {
			continue
		}
		summaries = append(summaries, models.UserSummary{
			UserID:         u.ID,
			Username:       u.Username,
			Posts:          len(u.Posts),
			ProfilePicture: u.ProfilePicture,
		})
	}
	return summaries
}
