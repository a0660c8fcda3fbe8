package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
	"quotee/store"
)

type feedResponse struct {
	Posts   []models.StructuredQuote `json:"posts"`
	HasMore bool                     `json:"hasMore"`
}

func TestGetPostsPagination(t *testing.T) {
	authorID := primitive.NewObjectID()
	author := models.User{ID: authorID, Username: "kafka", ProfilePicture: "pic.webp"}

	page := make([]models.Quote, 10)
	for i := range page {
		page[i] = quoteAt("kafka", authorID, "a cage went in search of a bird", i)
	}

	t.Run("first page of 35 has more", func(t *testing.T) {
		h, quotes, users, _, _ := testHandlers()
		quotes.On("Count", mock.Anything).Return(int64(35), nil)
		quotes.On("List", mock.Anything, int64(0), int64(10)).Return(page, nil)
		users.On("FindByIDs", mock.Anything, []primitive.ObjectID{authorID}).Return([]models.User{author}, nil)

		r := gin.New()
		r.GET("/p", h.GetPosts)
		w := performRequest(r, http.MethodGet, "/p", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp feedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Posts, 10)
		assert.True(t, resp.HasMore)
		assert.Equal(t, "pic.webp", resp.Posts[0].ProfilePicture)
		quotes.AssertExpectations(t)
	})

	t.Run("last page of 35 has no more", func(t *testing.T) {
		h, quotes, users, _, _ := testHandlers()
		quotes.On("Count", mock.Anything).Return(int64(35), nil)
		quotes.On("List", mock.Anything, int64(30), int64(10)).Return(page[:5], nil)
		users.On("FindByIDs", mock.Anything, mock.Anything).Return([]models.User{author}, nil)

		r := gin.New()
		r.GET("/p", h.GetPosts)
		w := performRequest(r, http.MethodGet, "/p?quotes=30", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp feedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Posts, 5)
		assert.False(t, resp.HasMore)
	})

	t.Run("fewer posts than one page never has more", func(t *testing.T) {
		h, quotes, users, _, _ := testHandlers()
		quotes.On("Count", mock.Anything).Return(int64(3), nil)
		quotes.On("List", mock.Anything, int64(0), int64(10)).Return(page[:3], nil)
		users.On("FindByIDs", mock.Anything, mock.Anything).Return([]models.User{author}, nil)

		r := gin.New()
		r.GET("/p", h.GetPosts)
		w := performRequest(r, http.MethodGet, "/p", nil)

		var resp feedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.HasMore)
	})

	t.Run("malformed cursor falls back to zero", func(t *testing.T) {
		h, quotes, users, _, _ := testHandlers()
		quotes.On("Count", mock.Anything).Return(int64(35), nil)
		quotes.On("List", mock.Anything, int64(0), int64(10)).Return(page, nil)
		users.On("FindByIDs", mock.Anything, mock.Anything).Return([]models.User{author}, nil)

		r := gin.New()
		r.GET("/p", h.GetPosts)
		w := performRequest(r, http.MethodGet, "/p?quotes=banana", nil)

		require.Equal(t, http.StatusOK, w.Code)
		quotes.AssertCalled(t, "List", mock.Anything, int64(0), int64(10))
	})
}

func TestGetPost(t *testing.T) {
	authorID := primitive.NewObjectID()
	quote := quoteAt("kafka", authorID, "a cage went in search of a bird", 0)

	t.Run("found", func(t *testing.T) {
		h, quotes, users, _, _ := testHandlers()
		quotes.On("FindByID", mock.Anything, quote.ID).Return(&quote, nil)
		users.On("FindByIDs", mock.Anything, []primitive.ObjectID{authorID}).
			Return([]models.User{{ID: authorID, Username: "kafka", ProfilePicture: "pic.webp"}}, nil)

		r := gin.New()
		r.GET("/p/:postId", h.GetPost)
		w := performRequest(r, http.MethodGet, "/p/"+quote.ID.Hex(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp models.StructuredQuote
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, quote.ID, resp.ID)
		assert.Equal(t, "pic.webp", resp.ProfilePicture)
	})

	t.Run("missing maps to 404", func(t *testing.T) {
		h, quotes, _, _, _ := testHandlers()
		id := primitive.NewObjectID()
		quotes.On("FindByID", mock.Anything, id).Return(nil, store.ErrNotFound)

		r := gin.New()
		r.GET("/p/:postId", h.GetPost)
		w := performRequest(r, http.MethodGet, "/p/"+id.Hex(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id maps to 404 without a query", func(t *testing.T) {
		h, quotes, _, _, _ := testHandlers()

		r := gin.New()
		r.GET("/p/:postId", h.GetPost)
		w := performRequest(r, http.MethodGet, "/p/not-an-id", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		quotes.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

// hasMore for a user's listing is derived from the unfiltered post count,
// even when a body filter shrinks the visible result.
func TestUserPostsFilteredHasMore(t *testing.T) {
	authorID := primitive.NewObjectID()
	postIDs := make([]primitive.ObjectID, 12)
	for i := range postIDs {
		postIDs[i] = primitive.NewObjectID()
	}
	user := models.User{ID: authorID, Username: "kafka", ProfilePicture: "pic.webp", Posts: postIDs}

	filtered := []models.Quote{quoteAt("kafka", authorID, "one matching quote about birds", 0)}

	h, quotes, users, _, _ := testHandlers()
	users.On("FindByUsername", mock.Anything, "kafka").Return(&user, nil)
	quotes.On("FindByIDs", mock.Anything, postIDs, "birds").Return(filtered, nil)
	users.On("FindByIDs", mock.Anything, []primitive.ObjectID{authorID}).Return([]models.User{user}, nil)

	r := gin.New()
	r.GET("/u/:username/p", h.UserPosts)
	w := performRequest(r, http.MethodGet, "/u/kafka/p?quotes=birds", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp feedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Posts, 1)
	assert.True(t, resp.HasMore)
}

func TestSearchPostsCriteria(t *testing.T) {
	h, quotes, users, _, _ := testHandlers()

	var captured store.SearchCriteria
	quotes.On("CountSearch", mock.Anything, mock.MatchedBy(func(crit store.SearchCriteria) bool {
		captured = crit
		return true
	})).Return(int64(1), nil)
	quotes.On("Search", mock.Anything, mock.Anything, int64(0), int64(10)).Return([]models.Quote{}, nil)
	users.On("FindByIDs", mock.Anything, mock.Anything).Return([]models.User{}, nil)

	r := gin.New()
	r.GET("/p/search", h.SearchPosts)
	w := performRequest(r, http.MethodGet, "/p/search?quotes=bird&author=kafka&tags=life,+hope+&fromDate=02/01/2024&toDate=05/01/2024", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bird", captured.Body)
	assert.Equal(t, "kafka", captured.Author)
	assert.Equal(t, []string{"life", "hope"}, captured.Tags)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), captured.From)
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), captured.To)
}

func TestParseSearchDates(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		from, to, err := parseSearchDates("", "")
		require.NoError(t, err)
		assert.Equal(t, searchEpoch, from)
		assert.WithinDuration(t, time.Now().UTC(), to, time.Minute)
	})

	t.Run("null literals treated as unset", func(t *testing.T) {
		from, _, err := parseSearchDates("null", "null")
		require.NoError(t, err)
		assert.Equal(t, searchEpoch, from)
	})

	t.Run("upper bound is inclusive", func(t *testing.T) {
		_, to, err := parseSearchDates("", "15/03/2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, _, err := parseSearchDates("2024-01-01", "")
		assert.Error(t, err)
	})
}

func TestTopQuotesShape(t *testing.T) {
	authorID := primitive.NewObjectID()
	top := []models.Quote{
		quoteAt("kafka", authorID, "most liked", 0),
		quoteAt("rilke", authorID, "second most liked", 1),
	}

	h, quotes, _, _, _ := testHandlers()
	quotes.On("TopByLikes", mock.Anything, int64(4)).Return(top, nil)

	r := gin.New()
	r.GET("/p/top", h.TopQuotes)
	w := performRequest(r, http.MethodGet, "/p/top", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "most liked", resp[0]["quotes"])
	assert.Equal(t, "kafka", resp[0]["author"])
	assert.Equal(t, top[0].ID.Hex(), resp[0]["quotesId"])
}
