package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"quotee/store"
)

// respondStoreError maps store failures to the response taxonomy: missing
// documents become 404 with the given message, anything else is an upstream
// database failure surfaced as 500.
func respondStoreError(c *gin.Context, err error, notFoundMessage string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundMessage})
		return
	}
	log.Printf("database error (%s %s): %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong!"})
}

func respondUpstream(c *gin.Context, err error) {
	log.Printf("database error (%s %s): %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong!"})
}

func respondUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized."})
}
