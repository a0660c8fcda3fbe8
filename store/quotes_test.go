package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSearchFilter(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("date range only", func(t *testing.T) {
		filter := searchFilter(SearchCriteria{From: from, To: to})
		assert.Equal(t, bson.M{"createdAt": bson.M{"$gte": from, "$lte": to}}, filter)
	})

	t.Run("all criteria", func(t *testing.T) {
		filter := searchFilter(SearchCriteria{
			Body:   "bird",
			Author: "kafka",
			Tags:   []string{"life", "hope"},
			From:   from,
			To:     to,
		})

		assert.Equal(t, substringRegex("bird"), filter["quotes"])
		assert.Equal(t, substringRegex("kafka"), filter["author"])
		assert.Equal(t, bson.M{"$in": []string{"life", "hope"}}, filter["tags"])
	})

	t.Run("empty strings add no constraint", func(t *testing.T) {
		filter := searchFilter(SearchCriteria{From: from, To: to})
		assert.NotContains(t, filter, "quotes")
		assert.NotContains(t, filter, "author")
		assert.NotContains(t, filter, "tags")
	})
}

func TestSubstringRegex(t *testing.T) {
	t.Run("case-insensitive", func(t *testing.T) {
		r := substringRegex("bird")
		assert.Equal(t, "bird", r.Pattern)
		assert.Equal(t, "i", r.Options)
	})

	t.Run("regex metacharacters are escaped", func(t *testing.T) {
		r := substringRegex("what? (really)")
		assert.Equal(t, primitive.Regex{Pattern: `what\? \(really\)`, Options: "i"}, r)
	})
}
