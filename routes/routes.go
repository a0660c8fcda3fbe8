package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quotee/config"
	"quotee/handlers"
	"quotee/middleware"
)

// SetupRouter wires every route group onto a fresh gin engine.
func SetupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Cron-Secret"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authLimit := middleware.RateLimitMiddleware(10, time.Minute)
	r.POST("/u/signin", authLimit, h.SignIn)
	r.POST("/u/signup", authLimit, h.SignUp)

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	u := r.Group("/u", auth)
	{
		u.POST("/auth", h.Auth)
		u.POST("/signout", h.SignOut)
		u.GET("/usersuggestion", h.UserSuggestion)
		u.GET("/topuser", h.TopUsers)
		u.GET("/notifications", h.UserNotifications)
		u.PATCH("/profile", h.UpdateProfile)
		u.PATCH("/follow/:targetId", h.FollowUser)

		u.GET("/:username", h.UserProfile)
		u.GET("/:username/p", h.UserPosts)
		u.GET("/:username/favorited", h.UserFavorites)
		u.GET("/:username/archived", h.UserArchived)
		u.GET("/:username/following", h.UserFollowing)
		u.GET("/:username/followers", h.UserFollowers)
		u.GET("/:username/settings", h.UserSettings)
		u.PATCH("/:username/report", h.ReportUser)
	}

	p := r.Group("/p", auth)
	{
		p.GET("", h.GetPosts)
		p.POST("", h.CreatePost)
		p.GET("/search", h.SearchPosts)
		p.GET("/top", h.TopQuotes)
		p.GET("/:postId", h.GetPost)
		p.GET("/:postId/edit", h.GetEditPost)
		p.GET("/:postId/likes", h.GetLikes)
		p.PATCH("/:postId", h.EditPost)
		p.PATCH("/:postId/likePost", h.LikePost)
		p.PATCH("/:postId/favoritePost", h.FavoritePost)
		p.PATCH("/:postId/archivePost", h.ArchivePost)
		p.PATCH("/:postId/unarchivePost", h.UnarchivePost)
		p.PATCH("/:postId/report", h.ReportPost)
		p.DELETE("/:postId", h.DeletePost)
	}

	n := r.Group("/n", auth)
	{
		n.POST("/subscribe", h.SubscribePush)
		n.POST("/unsubscribe", h.UnsubscribePush)
	}

	// The scheduler authenticates with a shared secret, not a user token.
	r.POST("/n/qotd", h.SendQOTD)

	return r
}
