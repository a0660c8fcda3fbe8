package handlers

import (
	"errors"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"quotee/middleware"
	"quotee/models"
	"quotee/store"
)

const (
	bcryptCost = 12
	tokenTTL   = 7 * 24 * time.Hour
)

var (
	emailPattern     = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	digitPattern     = regexp.MustCompile(`[0-9]`)
)

// validPassword enforces minimum eight characters with at least one
// uppercase letter, one lowercase letter and a number.
func validPassword(password string) bool {
	return len(password) >= 8 &&
		uppercasePattern.MatchString(password) &&
		lowercasePattern.MatchString(password) &&
		digitPattern.MatchString(password)
}

func (h *Handlers) issueToken(userID primitive.ObjectID, username string) (string, error) {
	claims := &middleware.Claims{
		UserID:   userID.Hex(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}

type SignInRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// POST /u/signin
func (h *Handlers) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	isEmail := emailPattern.MatchString(req.UsernameOrEmail)

	var user *models.User
	var err error
	if isEmail {
		user, err = h.Users.FindByEmail(ctx, req.UsernameOrEmail)
	} else {
		user, err = h.Users.FindByUsername(ctx, strings.ToLower(req.UsernameOrEmail))
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusForbidden, gin.H{"message": "User not found!"})
		return
	}
	if err != nil {
		respondUpstream(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		field := "Username"
		if isEmail {
			field = "Email"
		}
		c.JSON(http.StatusForbidden, gin.H{"message": field + " or password is incorrect."})
		return
	}

	if !user.IsEmailVerified {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Please verify your email address."})
		return
	}

	token, err := h.issueToken(user.ID, user.Username)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed in successfully.", "token": token})
}

type SignUpRequest struct {
	FirstName       string `json:"firstName" binding:"required,max=30"`
	LastName        string `json:"lastName" binding:"max=30"`
	Username        string `json:"username" binding:"required,alphanum,min=6,max=30"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// SignUp registers a user. Email verification delivery is handled by an
// external service; the account is stored verified here.
//
// POST /u/signup
func (h *Handlers) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Password != req.PasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password don't match."})
		return
	}

	if !validPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Password should be minimum eight characters, at least one uppercase letter, one lowercase letter and a number.",
		})
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	username := strings.ToLower(req.Username)

	if _, err := h.Users.FindByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is already registered."})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondUpstream(c, err)
		return
	}

	if _, err := h.Users.FindByUsername(ctx, username); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username not available"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondUpstream(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	user := models.User{
		ID:                 primitive.NewObjectID(),
		Username:           username,
		Email:              req.Email,
		Password:           string(hashed),
		FullName:           strings.TrimSpace(req.FirstName + " " + req.LastName),
		Description:        "Check out my quotes.",
		ProfilePicture:     starterAvatars[rand.Intn(len(starterAvatars))],
		Role:               "user",
		IsEmailVerified:    true,
		AllowNotifications: true,
		CreatedAt:          time.Now().UTC(),
		Followers:          []primitive.ObjectID{},
		Following:          []primitive.ObjectID{},
		Posts:              []primitive.ObjectID{},
		FavoritedPosts:     []primitive.ObjectID{},
		ArchivedPosts:      []models.ArchivedQuote{},
		Notifications:      []models.Notification{},
	}

	if err := h.Users.Insert(ctx, &user); err != nil {
		respondUpstream(c, err)
		return
	}

	welcome := models.Notification{
		Announcer:      "Quotee",
		Name:           "Welcome to Quotee",
		Description:    "Your account has been activated, now you can start sharing quotes. You could also update your profile.",
		ProfilePicture: "https://res.cloudinary.com/quoteequotesid/image/upload/system/quoteelogo.png",
		URL:            "/settings/account",
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.Users.PushNotification(ctx, user.ID, welcome); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account successfully registered."})
}

// POST /u/signout
func (h *Handlers) SignOut(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully!"})
}

// Auth returns the caller's session snapshot, including the unread
// notification count.
//
// POST /u/auth
func (h *Handlers) Auth(c *gin.Context) {
	userID, _, ok := identity(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	ctx, cancel := dbContext()
	defer cancel()

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		respondStoreError(c, err, "User not found!")
		return
	}

	unread := 0
	for _, n := range user.Notifications {
		if !n.Read {
			unread++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"username":            user.Username,
		"fullName":            user.FullName,
		"userId":              user.ID,
		"profilePicture":      user.ProfilePicture,
		"favoritedPosts":      user.FavoritedPosts,
		"archivedPosts":       user.ArchivedPosts,
		"followers":           user.Followers,
		"following":           user.Following,
		"allowNotifications":  user.AllowNotifications,
		"unreadNotifications": unread,
	})
}
