package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quotee/models"
)

func TestReportPost(t *testing.T) {
	callerID := primitive.NewObjectID()
	authorID := primitive.NewObjectID()
	quote := quoteAt("kafka", authorID, "a cage went in search of a bird", 0)

	t.Run("valid reason code", func(t *testing.T) {
		h, quotes, _, reports, _ := testHandlers()
		quotes.On("FindByID", mock.Anything, quote.ID).Return(&quote, nil)
		reports.On("InsertPostReport", mock.Anything, mock.MatchedBy(func(rep *models.Report) bool {
			return rep.PostID == quote.ID &&
				rep.IssuedBy == callerID &&
				rep.ReasonCode == "002" &&
				rep.ReasonText == "It's inappropriate."
		})).Return(nil)

		r := gin.New()
		r.PATCH("/p/:postId/report", asUser(callerID, "reader"), h.ReportPost)
		w := performRequest(r, http.MethodPatch, "/p/"+quote.ID.Hex()+"/report?code=002", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		reports.AssertExpectations(t)
	})

	t.Run("unknown reason code", func(t *testing.T) {
		h, _, _, reports, _ := testHandlers()

		r := gin.New()
		r.PATCH("/p/:postId/report", asUser(callerID, "reader"), h.ReportPost)
		w := performRequest(r, http.MethodPatch, "/p/"+quote.ID.Hex()+"/report?code=999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		reports.AssertNotCalled(t, "InsertPostReport", mock.Anything, mock.Anything)
	})

	t.Run("cannot report own post", func(t *testing.T) {
		h, quotes, _, reports, _ := testHandlers()
		quotes.On("FindByID", mock.Anything, quote.ID).Return(&quote, nil)

		r := gin.New()
		r.PATCH("/p/:postId/report", asUser(authorID, "kafka"), h.ReportPost)
		w := performRequest(r, http.MethodPatch, "/p/"+quote.ID.Hex()+"/report?code=001", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		reports.AssertNotCalled(t, "InsertPostReport", mock.Anything, mock.Anything)
	})
}

func TestReportUser(t *testing.T) {
	callerID := primitive.NewObjectID()
	target := models.User{ID: primitive.NewObjectID(), Username: "spammer"}

	t.Run("valid report", func(t *testing.T) {
		h, _, users, reports, _ := testHandlers()
		users.On("FindByUsername", mock.Anything, "spammer").Return(&target, nil)
		reports.On("InsertUserReport", mock.Anything, mock.MatchedBy(func(rep *models.UserReport) bool {
			return rep.UserID == target.ID &&
				rep.IssuedBy == callerID &&
				rep.ReasonCode == "001" &&
				rep.Description == "keeps posting ads"
		})).Return(nil)

		r := gin.New()
		r.PATCH("/u/:username/report", asUser(callerID, "reader"), h.ReportUser)
		body := []byte(`{"code":"001","description":"keeps posting ads"}`)
		w := performRequest(r, http.MethodPatch, "/u/spammer/report", body)

		assert.Equal(t, http.StatusOK, w.Code)
		reports.AssertExpectations(t)
	})

	t.Run("cannot report yourself", func(t *testing.T) {
		h, _, _, reports, _ := testHandlers()

		r := gin.New()
		r.PATCH("/u/:username/report", asUser(callerID, "reader"), h.ReportUser)
		w := performRequest(r, http.MethodPatch, "/u/reader/report", []byte(`{"code":"001"}`))

		assert.Equal(t, http.StatusForbidden, w.Code)
		reports.AssertNotCalled(t, "InsertUserReport", mock.Anything, mock.Anything)
	})
}
